package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

// llmProviderPriority is the order in which configured keys are tried.
var llmProviderPriority = []string{models.KeyTypeOpenAI, models.KeyTypeGemini, models.KeyTypeAnthropic}

type GenerateService interface {
	Generate(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.GenerateResponse, error)
	ListTopics(ctx context.Context, userID int64) ([]*transfer.TopicInfo, error)
	TopicInfo(ctx context.Context, userID, topicID int64) (*transfer.TopicInfo, []*models.Post, error)
	RemoveTopic(ctx context.Context, userID, topicID int64) error
}

type generateService struct {
	cfg config.Config
	db  *sql.DB
	t   repository.TopicRepository
	p   repository.PostRepository
	ak  ApiKeyService
}

func NewGenerateService(cfg config.Config, db *sql.DB, t repository.TopicRepository, p repository.PostRepository, ak ApiKeyService) GenerateService {
	return &generateService{
		cfg: cfg,
		db:  db,
		t:   t,
		p:   p,
		ak:  ak,
	}
}

// Generate creates a topic and one draft post per requested platform. A
// platform whose generation fails still gets an item in the response, marked
// with status "error", so one bad call never discards the rest.
func (s *generateService) Generate(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.GenerateResponse, error) {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	topicName := strings.TrimSpace(req.Topic)
	if topicName == "" {
		err = errors.New("topic is required")
		slog.Info(err.Error())
		return nil, err
	}

	if len(req.Platforms) == 0 {
		err = errors.New("at least one platform is required")
		slog.Info(err.Error())
		return nil, err
	}

	for _, platform := range req.Platforms {
		if !models.IsValidPlatform(platform) {
			err = fmt.Errorf("invalid platform: %s", platform)
			slog.Info(err.Error())
			return nil, err
		}
	}

	tone := req.Tone
	if tone == "" {
		tone = models.ToneProfessional
	}
	if !models.IsValidTone(tone) {
		err = fmt.Errorf("invalid tone: %s", tone)
		slog.Info(err.Error())
		return nil, err
	}

	client, err := s.llmClientForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer tx.Rollback()

	topic := &models.Topic{
		UserID:      userID,
		Name:        topicName,
		Description: req.AdditionalContext,
		Tone:        tone,
	}
	topicID, err := s.t.Create(ctx, tx, topic)
	if err != nil {
		return nil, fmt.Errorf("error saving topic")
	}

	items := make([]transfer.GeneratedItem, 0, len(req.Platforms))
	for _, platform := range req.Platforms {
		item := transfer.GeneratedItem{Platform: platform}

		generated, err := client.GenerateContent(ctx, topicName, platform, tone, req.AdditionalContext)
		if err != nil {
			slog.Info("content generation failed", "platform", platform, "error", err.Error())
			item.Status = "error"
			item.Content = err.Error()
			items = append(items, item)
			continue
		}

		post := &models.Post{
			UserID:   userID,
			TopicID:  topicID,
			Platform: platform,
			Content:  generated.Content,
			Hashtags: strings.Join(generated.Hashtags, " "),
			Tone:     tone,
			Status:   models.PostStatusDraft,
		}
		postID, err := s.p.Create(ctx, tx, post)
		if err != nil {
			return nil, fmt.Errorf("error saving post")
		}

		item.Content = generated.Content
		item.Hashtags = generated.Hashtags
		item.PostID = postID
		item.Status = models.PostStatusDraft
		items = append(items, item)
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.GenerateResponse{
		TopicID:   topicID,
		TopicName: topicName,
		Posts:     items,
	}, nil
}

func (s *generateService) llmClientForUser(ctx context.Context, userID int64) (*llmClient, error) {
	for _, keyType := range llmProviderPriority {
		key, _, found, err := s.ak.DecryptedKey(ctx, userID, keyType)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		return newLLMClient(s.cfg, keyType, key)
	}
	err := errors.New("no LLM API key configured, add an OpenAI or Gemini key first")
	slog.Info(err.Error())
	return nil, err
}

func (s *generateService) ListTopics(ctx context.Context, userID int64) ([]*transfer.TopicInfo, error) {
	topics, err := s.t.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting topics")
	}

	infos := make([]*transfer.TopicInfo, 0, len(topics))
	for _, topic := range topics {
		count, err := s.t.CountPosts(ctx, topic.ID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, &transfer.TopicInfo{
			ID:          topic.ID,
			Name:        topic.Name,
			Description: topic.Description,
			Tone:        topic.Tone,
			CreatedAt:   topic.CreatedAt.Format(time.RFC3339),
			PostCount:   count,
		})
	}
	return infos, nil
}

func (s *generateService) TopicInfo(ctx context.Context, userID, topicID int64) (*transfer.TopicInfo, []*models.Post, error) {
	isValid, err := s.t.CheckByUserID(ctx, topicID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !isValid {
		err = errors.New("topic doesn't exist")
		slog.Info(err.Error())
		return nil, nil, err
	}

	topic, _, err := s.t.GetByID(ctx, topicID)
	if err != nil {
		return nil, nil, err
	}

	count, err := s.t.CountPosts(ctx, topicID)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.p.ListByTopicID(ctx, topicID)
	if err != nil {
		return nil, nil, err
	}

	info := &transfer.TopicInfo{
		ID:          topic.ID,
		Name:        topic.Name,
		Description: topic.Description,
		Tone:        topic.Tone,
		CreatedAt:   topic.CreatedAt.Format(time.RFC3339),
		PostCount:   count,
	}
	return info, posts, nil
}

func (s *generateService) RemoveTopic(ctx context.Context, userID, topicID int64) error {
	isValid, err := s.t.CheckByUserID(ctx, topicID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("topic doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return s.t.Remove(ctx, topicID)
}
