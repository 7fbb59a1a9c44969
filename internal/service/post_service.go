package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type PostService interface {
	List(ctx context.Context, userID int64, status, platform string, limit, offset int) ([]*models.Post, int, error)
	Stats(ctx context.Context, userID int64) (*transfer.PostStats, error)
	Upcoming(ctx context.Context, userID int64, limit int) ([]*models.Post, error)
	Info(ctx context.Context, userID, postID int64) (*models.Post, []*models.ErrorLog, error)
	UpdateContent(ctx context.Context, userID, postID int64, pu *transfer.PostUpdate) (*models.Post, error)
	Approve(ctx context.Context, userID, postID int64, pa *transfer.PostApproval) (*models.Post, error)
	Cancel(ctx context.Context, userID, postID int64) (*models.Post, error)
	Retry(ctx context.Context, userID, postID int64) (*models.Post, error)
	RemovePost(ctx context.Context, userID, postID int64) error
	CreateManual(ctx context.Context, userID int64, mc *transfer.ManualPostCreation) ([]*models.Post, error)
}

type postService struct {
	db *sql.DB
	p  repository.PostRepository
	t  repository.TopicRepository
	e  repository.ErrorLogRepository
}

func NewPostService(db *sql.DB, p repository.PostRepository, t repository.TopicRepository, e repository.ErrorLogRepository) PostService {
	return &postService{
		db: db,
		p:  p,
		t:  t,
		e:  e,
	}
}

func (s *postService) List(ctx context.Context, userID int64, status, platform string, limit, offset int) ([]*models.Post, int, error) {
	if status != "" {
		switch status {
		case models.PostStatusDraft, models.PostStatusPending, models.PostStatusPosted, models.PostStatusFailed:
		default:
			err := fmt.Errorf("invalid status: %s", status)
			slog.Info(err.Error())
			return nil, 0, err
		}
	}
	if platform != "" && !models.IsValidPlatform(platform) {
		err := fmt.Errorf("invalid platform: %s", platform)
		slog.Info(err.Error())
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.p.List(ctx, userID, status, platform, limit, offset)
}

func (s *postService) Stats(ctx context.Context, userID int64) (*transfer.PostStats, error) {
	return s.p.Stats(ctx, userID)
}

func (s *postService) Upcoming(ctx context.Context, userID int64, limit int) ([]*models.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.p.ListUpcoming(ctx, userID, limit)
}

func (s *postService) Info(ctx context.Context, userID, postID int64) (*models.Post, []*models.ErrorLog, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, nil, err
	}

	logs, err := s.e.ListByPostID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return post, logs, nil
}

// UpdateContent edits a draft or failed post. Posts already queued or
// published are immutable.
func (s *postService) UpdateContent(ctx context.Context, userID, postID int64, pu *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusFailed {
		err = fmt.Errorf("cannot edit a %s post", post.Status)
		slog.Info(err.Error())
		return nil, err
	}

	content := strings.TrimSpace(pu.Content)
	if content == "" {
		err = errors.New("content cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	hashtags := post.Hashtags
	if pu.Hashtags != nil {
		hashtags = *pu.Hashtags
	}

	if err := s.p.UpdateContent(ctx, postID, content, hashtags); err != nil {
		return nil, fmt.Errorf("error updating post")
	}

	post.Content = content
	post.Hashtags = hashtags
	return post, nil
}

// Approve moves a post into the publish queue. An empty scheduled time means
// the next scheduler tick picks it up immediately.
func (s *postService) Approve(ctx context.Context, userID, postID int64, pa *transfer.PostApproval) (*models.Post, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status == models.PostStatusPosted {
		err = errors.New("post has already been published")
		slog.Info(err.Error())
		return nil, err
	}

	var scheduledTime *time.Time
	if pa.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, pa.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled_time: %s", pa.ScheduledTime)
			slog.Info(err.Error())
			return nil, err
		}
		scheduledTime = &t
	}

	if err := s.p.Approve(ctx, postID, scheduledTime); err != nil {
		return nil, fmt.Errorf("error approving post")
	}

	post.Status = models.PostStatusPending
	post.ScheduledTime = scheduledTime
	post.RetryCount = 0
	post.LastError = nil
	return post, nil
}

func (s *postService) Cancel(ctx context.Context, userID, postID int64) (*models.Post, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status == models.PostStatusPosted {
		err = errors.New("post has already been published")
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.p.Cancel(ctx, postID); err != nil {
		return nil, fmt.Errorf("error cancelling post")
	}

	post.Status = models.PostStatusDraft
	post.ScheduledTime = nil
	return post, nil
}

// Retry re-queues a failed post with a fresh retry budget.
func (s *postService) Retry(ctx context.Context, userID, postID int64) (*models.Post, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.PostStatusFailed {
		err = fmt.Errorf("only failed posts can be retried, post is %s", post.Status)
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.p.Retry(ctx, postID); err != nil {
		return nil, fmt.Errorf("error retrying post")
	}

	post.Status = models.PostStatusPending
	post.RetryCount = 0
	post.LastError = nil
	return post, nil
}

func (s *postService) RemovePost(ctx context.Context, userID, postID int64) error {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if post.Status == models.PostStatusPosted {
		err = errors.New("published posts cannot be deleted")
		slog.Info(err.Error())
		return err
	}

	return s.p.Remove(ctx, postID)
}

// CreateManual creates user-written posts, bypassing generation. Each platform
// gets its own pending post under a synthetic topic. Posts without a scheduled
// time are meant to publish right away, the caller enqueues them.
func (s *postService) CreateManual(ctx context.Context, userID int64, mc *transfer.ManualPostCreation) ([]*models.Post, error) {
	var err error

	content := strings.TrimSpace(mc.Content)
	if content == "" {
		err = errors.New("content cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	platforms := []string{}
	for _, platform := range strings.Split(mc.Platforms, ",") {
		platform = strings.TrimSpace(platform)
		if platform == "" {
			continue
		}
		if !models.IsValidPlatform(platform) {
			err = fmt.Errorf("invalid platform: %s", platform)
			slog.Info(err.Error())
			return nil, err
		}
		platforms = append(platforms, platform)
	}
	if len(platforms) == 0 {
		err = errors.New("at least one platform is required")
		slog.Info(err.Error())
		return nil, err
	}

	var scheduledTime *time.Time
	if mc.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, mc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled_time: %s", mc.ScheduledTime)
			slog.Info(err.Error())
			return nil, err
		}
		scheduledTime = &t
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer tx.Rollback()

	topic := &models.Topic{
		UserID: userID,
		Name:   manualTopicName(content),
		Tone:   models.ToneCasual,
	}
	topicID, err := s.t.Create(ctx, tx, topic)
	if err != nil {
		return nil, fmt.Errorf("error saving topic")
	}

	hashtags := strings.Join(extractHashtags(content), " ")

	var imageURL *string
	if mc.ImageURL != "" {
		imageURL = &mc.ImageURL
	}

	posts := make([]*models.Post, 0, len(platforms))
	for _, platform := range platforms {
		post := &models.Post{
			UserID:        userID,
			TopicID:       topicID,
			Platform:      platform,
			Content:       content,
			Hashtags:      hashtags,
			Tone:          models.ToneCasual,
			Status:        models.PostStatusPending,
			ScheduledTime: scheduledTime,
			ImageURL:      imageURL,
		}
		id, err := s.p.Create(ctx, tx, post)
		if err != nil {
			return nil, fmt.Errorf("error saving post")
		}
		post.ID = id
		posts = append(posts, post)
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

// manualTopicName derives a topic label from the first 50 runes of the
// content. Slicing by runes keeps multi-byte characters intact.
func manualTopicName(content string) string {
	name := content
	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50])
	}
	return "Manual: " + name
}

func (s *postService) ownedPost(ctx context.Context, userID, postID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("PostID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.p.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, _, err := s.p.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}
