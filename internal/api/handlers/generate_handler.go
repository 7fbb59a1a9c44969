package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/service"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type GenerateHandler struct {
	s service.GenerateService
}

func NewGenerateHandler(service service.GenerateService) *GenerateHandler {
	return &GenerateHandler{s: service}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.s.Generate(c.Context(), userId, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *GenerateHandler) ListTopics(c *fiber.Ctx) error {
	userId := GetUserID(c)

	topics, err := h.s.ListTopics(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list topics",
		})
	}

	return c.Status(fiber.StatusOK).JSON(topics)
}

func (h *GenerateHandler) TopicInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)
	topicId := c.QueryInt("id", 0)

	info, posts, err := h.s.TopicInfo(c.Context(), userId, int64(topicId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"topic": info,
		"posts": posts,
	})
}

func (h *GenerateHandler) RemoveTopic(c *fiber.Ctx) error {
	userId := GetUserID(c)
	topicId := c.QueryInt("id", 0)

	err := h.s.RemoveTopic(c.Context(), userId, int64(topicId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
