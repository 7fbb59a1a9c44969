package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

// Store is the slice of post persistence the scheduler needs.
type Store interface {
	ListDue(ctx context.Context, now time.Time) ([]*models.Post, error)
	Claim(ctx context.Context, id int64) (bool, error)
	MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) error
	RecordFailure(ctx context.Context, post *models.Post, entry *models.ErrorLog) error
}

// Publisher pushes content to one social platform on behalf of a user.
type Publisher interface {
	PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error)
}

// Scheduler polls for due pending posts and publishes them. Ticks are
// serialized, a slow batch delays the next tick instead of overlapping it.
type Scheduler struct {
	store      Store
	publishers map[string]Publisher
	interval   time.Duration
	maxRetries int

	mu      sync.Mutex
	running bool
	done    chan struct{}
	stopped sync.WaitGroup
}

func New(store Store, publishers map[string]Publisher, interval time.Duration, maxRetries int) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Scheduler{
		store:      store,
		publishers: publishers,
		interval:   interval,
		maxRetries: maxRetries,
	}
}

// Start launches the polling loop. Calling Start on a running scheduler is a
// no-op apart from a warning.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		slog.Warn("scheduler already running")
		return
	}

	s.running = true
	s.done = make(chan struct{})
	s.stopped.Add(1)
	go s.run(s.done)

	slog.Info("scheduler started", "interval", s.interval.String())
}

// Stop signals the loop to exit. It does not wait for an in-flight tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	close(s.done)
	slog.Info("scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Wait blocks until the polling loop has exited after Stop.
func (s *Scheduler) Wait() {
	s.stopped.Wait()
}

func (s *Scheduler) run(done chan struct{}) {
	defer s.stopped.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.checkPendingPosts(context.Background())
		}
	}
}

// checkPendingPosts publishes every due post sequentially. One post's failure
// never touches its siblings.
func (s *Scheduler) checkPendingPosts(ctx context.Context) {
	now := time.Now()
	posts, err := s.store.ListDue(ctx, now)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range posts {
		if err := s.ProcessPost(ctx, post); err != nil {
			slog.Info(err.Error())
		}
	}
}

// ProcessPost claims a single post, publishes it, and settles its outcome:
// posted on success, retried or failed on error. When the poller and a queue
// worker race for the same post, the claim lets exactly one of them through.
// The returned error reports persistence problems only, publish failures are
// absorbed into the post's state.
func (s *Scheduler) ProcessPost(ctx context.Context, post *models.Post) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("publisher panicked", "post_id", post.ID, "panic", r)
			err = s.handleFailure(ctx, post, "panic", fmt.Sprintf("publisher panic: %v", r))
		}
	}()

	claimed, err := s.store.Claim(ctx, post.ID)
	if err != nil {
		return err
	}
	if !claimed {
		slog.Info("post already claimed, skipping", "post_id", post.ID)
		return nil
	}

	slog.Info("publishing post", "post_id", post.ID, "platform", post.Platform)

	publisher, ok := s.publishers[post.Platform]
	if !ok {
		return s.handleFailure(ctx, post, "config", fmt.Sprintf("no publisher for platform %s", post.Platform))
	}

	result, err := publisher.PostContent(ctx, post.UserID, post.Content, splitHashtags(post.Hashtags))
	if err != nil {
		return s.handleFailure(ctx, post, fmt.Sprintf("%T", err), err.Error())
	}

	if !result.Success {
		return s.handleFailure(ctx, post, "platform", result.Message)
	}

	postedAt := time.Now()
	if err := s.store.MarkPosted(ctx, post.ID, result.PostID, postedAt); err != nil {
		return err
	}

	post.Status = models.PostStatusPosted
	post.PostedAt = &postedAt
	post.PlatformPostID = &result.PostID

	slog.Info("post published", "post_id", post.ID, "platform_post_id", result.PostID, "mock", result.Mock)
	return nil
}

// handleFailure bumps the retry count, logs the attempt, and either reschedules
// the post with exponential backoff or marks it failed once the retry budget is
// spent. Both writes land in one transaction.
func (s *Scheduler) handleFailure(ctx context.Context, post *models.Post, errType, message string) error {
	post.RetryCount++
	post.LastError = &message

	entry := &models.ErrorLog{
		PostID:        post.ID,
		ErrorMessage:  message,
		ErrorType:     errType,
		AttemptNumber: post.RetryCount,
	}

	if post.RetryCount >= s.maxRetries {
		post.Status = models.PostStatusFailed
		slog.Error("post failed permanently", "post_id", post.ID, "attempts", post.RetryCount, "error", message)
	} else {
		delay := retryDelay(post.RetryCount)
		next := time.Now().Add(delay)
		post.Status = models.PostStatusPending
		post.ScheduledTime = &next
		slog.Warn("post publish failed, will retry", "post_id", post.ID, "retry_in", delay.String(), "error", message)
	}

	return s.store.RecordFailure(ctx, post, entry)
}

// retryDelay returns 1, 2, 4, ... minutes for attempts 1, 2, 3, ...
func retryDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Minute
}

func splitHashtags(hashtags string) []string {
	if hashtags == "" {
		return nil
	}
	return strings.Fields(strings.ReplaceAll(hashtags, ",", " "))
}
