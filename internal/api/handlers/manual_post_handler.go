package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/queue"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/service"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type ManualPostHandler struct {
	s           service.PostService
	storage     *service.StorageService
	AsynqClient *asynq.Client
}

func NewManualPostHandler(s service.PostService, storage *service.StorageService, asynqClient *asynq.Client) *ManualPostHandler {
	return &ManualPostHandler{s: s, storage: storage, AsynqClient: asynqClient}
}

// CreateManualPost accepts a multipart form with the post text, a
// comma-separated platform list, an optional scheduled time, and an optional
// image. Unscheduled posts are handed to the queue for immediate publishing.
func (h *ManualPostHandler) CreateManualPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	mc := transfer.ManualPostCreation{
		Content:       c.FormValue("content"),
		Platforms:     c.FormValue("platforms"),
		ScheduledTime: c.FormValue("scheduled_time"),
	}

	if files := form.File["image"]; len(files) > 0 {
		imageURL, err := h.storage.UploadImage(c.Context(), userID, files[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		mc.ImageURL = imageURL
	}

	posts, err := h.s.CreateManual(c.Context(), userID, &mc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results := make([]transfer.ManualPostResult, 0, len(posts))
	for _, post := range posts {
		result := transfer.ManualPostResult{
			Platform: post.Platform,
			Success:  true,
			Message:  "Post scheduled",
			PostID:   post.ID,
		}

		if post.ScheduledTime == nil {
			err = queue.EnqueuePost(h.AsynqClient, queue.PublishPostPayload{PostID: post.ID}, 0)
			if err != nil {
				slog.Info(err.Error())
				result.Success = false
				result.Message = "Error queuing post for publishing"
			} else {
				result.Message = "Post queued for publishing"
			}
		}

		results = append(results, result)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"results": results,
	})
}

// UploadImage stores an image on its own so the frontend can attach the
// returned URL to a later post.
func (h *ManualPostHandler) UploadImage(c *fiber.Ctx) error {
	userID := GetUserID(c)

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image uploaded",
		})
	}

	imageURL, err := h.storage.UploadImage(c.Context(), userID, file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image_url": imageURL,
	})
}
