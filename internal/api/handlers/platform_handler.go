package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/service"
)

type PlatformHandler struct {
	ps  service.PlatformService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		cfg: cfg,
	}
}

func (h *PlatformHandler) ConnectPlatform(c *fiber.Ctx) error {
	authURL := h.ps.GetAuthURL(c.Context(), c.Params("platform"), c.Query("state"))
	if authURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}
	return c.Redirect(authURL)
}

// CallbackHandler forwards the provider code to the frontend, which completes
// the exchange and stores the token through the keys API.
func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	platform := c.Params("platform")

	redirectURL := fmt.Sprintf("%s/dashboard/connect?platform=%s&code=%s", h.cfg.FrontendURL, platform, code)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
