package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type fakeStore struct {
	mu              sync.Mutex
	due             []*models.Post
	status          map[int64]string
	posted          map[int64]string
	failures        []*models.ErrorLog
	listCalls       int
	markPostedCalls int

	markPostedErr error
}

func newFakeStore(due ...*models.Post) *fakeStore {
	return &fakeStore{
		due:    due,
		status: make(map[int64]string),
		posted: make(map[int64]string),
	}
}

func (f *fakeStore) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.due, nil
}

// Claim mirrors the conditional-update contract of the real store: only a
// pending post can be claimed, and only by one caller.
func (f *fakeStore) Claim(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, tracked := f.status[id]
	if tracked && status != models.PostStatusPending {
		return false, nil
	}
	f.status[id] = models.PostStatusProcessing
	return true, nil
}

func (f *fakeStore) MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markPostedCalls++
	if f.markPostedErr != nil {
		return f.markPostedErr
	}
	f.status[id] = models.PostStatusPosted
	f.posted[id] = platformPostID
	return nil
}

func (f *fakeStore) RecordFailure(ctx context.Context, post *models.Post, entry *models.ErrorLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[post.ID] = post.Status
	f.failures = append(f.failures, entry)
	return nil
}

func (f *fakeStore) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakePublisher struct {
	result *transfer.PublishResult
	err    error
	panics bool

	calls int
}

func (f *fakePublisher) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	f.calls++
	if f.panics {
		panic("publisher exploded")
	}
	return f.result, f.err
}

func pendingPost(id int64, platform string) *models.Post {
	return &models.Post{
		ID:       id,
		UserID:   7,
		Platform: platform,
		Content:  "some content",
		Hashtags: "#ai #golang",
		Status:   models.PostStatusPending,
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "connection timed out" }

func TestProcessPostSuccess(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{result: &transfer.PublishResult{Success: true, PostID: "li_123"}}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	post := pendingPost(1, models.PlatformLinkedin)
	err := s.ProcessPost(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPosted, post.Status)
	require.NotNil(t, post.PlatformPostID)
	assert.Equal(t, "li_123", *post.PlatformPostID)
	require.NotNil(t, post.PostedAt)
	assert.WithinDuration(t, time.Now(), *post.PostedAt, time.Second)
	assert.Equal(t, "li_123", store.posted[1])
	assert.Empty(t, store.failures)
}

func TestProcessPostRetryBackoff(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: timeoutErr{}}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	post := pendingPost(1, models.PlatformLinkedin)

	// First failure: retry in 1 minute.
	require.NoError(t, s.ProcessPost(context.Background(), post))
	assert.Equal(t, models.PostStatusPending, post.Status)
	assert.Equal(t, 1, post.RetryCount)
	require.NotNil(t, post.ScheduledTime)
	assert.WithinDuration(t, time.Now().Add(1*time.Minute), *post.ScheduledTime, 2*time.Second)

	// Second failure: retry in 2 minutes.
	require.NoError(t, s.ProcessPost(context.Background(), post))
	assert.Equal(t, models.PostStatusPending, post.Status)
	assert.Equal(t, 2, post.RetryCount)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), *post.ScheduledTime, 2*time.Second)

	// Third failure exhausts the budget.
	lastScheduled := *post.ScheduledTime
	require.NoError(t, s.ProcessPost(context.Background(), post))
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Equal(t, 3, post.RetryCount)
	assert.Equal(t, lastScheduled, *post.ScheduledTime)

	require.Len(t, store.failures, 3)
	for i, entry := range store.failures {
		assert.Equal(t, int64(1), entry.PostID)
		assert.Equal(t, i+1, entry.AttemptNumber)
		assert.Equal(t, "scheduler.timeoutErr", entry.ErrorType)
		assert.Equal(t, "connection timed out", entry.ErrorMessage)
	}
	require.NotNil(t, post.LastError)
	assert.Equal(t, "connection timed out", *post.LastError)
}

type flakyPublisher struct {
	failuresLeft int
	result       *transfer.PublishResult
}

func (f *flakyPublisher) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, timeoutErr{}
	}
	return f.result, nil
}

func TestProcessPostRecoversAfterFailures(t *testing.T) {
	store := newFakeStore()
	pub := &flakyPublisher{
		failuresLeft: 2,
		result:       &transfer.PublishResult{Success: true, PostID: "li_777"},
	}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	post := pendingPost(1, models.PlatformLinkedin)
	require.NoError(t, s.ProcessPost(context.Background(), post))
	require.NoError(t, s.ProcessPost(context.Background(), post))
	require.NoError(t, s.ProcessPost(context.Background(), post))

	assert.Equal(t, models.PostStatusPosted, post.Status)
	assert.Equal(t, 2, post.RetryCount)
	require.NotNil(t, post.PlatformPostID)
	assert.Equal(t, "li_777", *post.PlatformPostID)
	assert.Equal(t, "li_777", store.posted[1])
	assert.Len(t, store.failures, 2)
}

func TestProcessPostPlatformRejection(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{result: &transfer.PublishResult{Success: false, Message: "caption too long"}}
	s := New(store, map[string]Publisher{models.PlatformInstagram: pub}, time.Minute, 3)

	post := pendingPost(2, models.PlatformInstagram)
	require.NoError(t, s.ProcessPost(context.Background(), post))

	assert.Equal(t, models.PostStatusPending, post.Status)
	require.Len(t, store.failures, 1)
	assert.Equal(t, "platform", store.failures[0].ErrorType)
	assert.Equal(t, "caption too long", store.failures[0].ErrorMessage)
}

func TestProcessPostMissingPublisher(t *testing.T) {
	store := newFakeStore()
	s := New(store, map[string]Publisher{}, time.Minute, 3)

	post := pendingPost(3, models.PlatformFacebook)
	require.NoError(t, s.ProcessPost(context.Background(), post))

	require.Len(t, store.failures, 1)
	assert.Equal(t, "config", store.failures[0].ErrorType)
	assert.Contains(t, store.failures[0].ErrorMessage, "facebook")
}

func TestProcessPostPublisherPanic(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{panics: true}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	post := pendingPost(4, models.PlatformLinkedin)
	require.NoError(t, s.ProcessPost(context.Background(), post))

	assert.Equal(t, 1, post.RetryCount)
	require.Len(t, store.failures, 1)
	assert.Equal(t, "panic", store.failures[0].ErrorType)
	assert.Contains(t, store.failures[0].ErrorMessage, "publisher exploded")
}

func TestProcessPostPersistenceError(t *testing.T) {
	store := newFakeStore()
	store.markPostedErr = errors.New("db down")
	pub := &fakePublisher{result: &transfer.PublishResult{Success: true, PostID: "li_9"}}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	post := pendingPost(5, models.PlatformLinkedin)
	err := s.ProcessPost(context.Background(), post)
	require.Error(t, err)
	assert.Equal(t, models.PostStatusPending, post.Status)
}

type blockingPublisher struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	result  *transfer.PublishResult
}

func (b *blockingPublisher) PostContent(ctx context.Context, userID int64, content string, hashtags []string) (*transfer.PublishResult, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return b.result, nil
}

func (b *blockingPublisher) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Two callers racing for the same pending post, like the poller and a queue
// worker handling a publish-now task. The claim must let exactly one through.
func TestProcessPostConcurrentCallersPublishOnce(t *testing.T) {
	store := newFakeStore()
	pub := &blockingPublisher{
		release: make(chan struct{}),
		result:  &transfer.PublishResult{Success: true, PostID: "li_42"},
	}
	s := New(store, map[string]Publisher{models.PlatformLinkedin: pub}, time.Minute, 3)

	// Each caller loads its own copy of the row.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.ProcessPost(context.Background(), pendingPost(1, models.PlatformLinkedin)))
		}()
	}

	// Let both reach the claim while the winner is still publishing.
	time.Sleep(20 * time.Millisecond)
	close(pub.release)
	wg.Wait()

	assert.Equal(t, 1, pub.Calls())
	assert.Equal(t, 1, store.markPostedCalls)
	assert.Equal(t, "li_42", store.posted[1])
	assert.Empty(t, store.failures)
}

func TestCheckPendingPostsIsolatesFailures(t *testing.T) {
	bad := pendingPost(1, models.PlatformLinkedin)
	good := pendingPost(2, models.PlatformInstagram)
	store := newFakeStore(bad, good)

	s := New(store, map[string]Publisher{
		models.PlatformLinkedin:  &fakePublisher{err: timeoutErr{}},
		models.PlatformInstagram: &fakePublisher{result: &transfer.PublishResult{Success: true, PostID: "ig_1"}},
	}, time.Minute, 3)

	s.checkPendingPosts(context.Background())

	assert.Equal(t, models.PostStatusPending, bad.Status)
	assert.Equal(t, 1, bad.RetryCount)
	assert.Equal(t, models.PostStatusPosted, good.Status)
	assert.Equal(t, "ig_1", store.posted[2])
}

func TestSchedulerStartStop(t *testing.T) {
	store := newFakeStore()
	s := New(store, map[string]Publisher{}, 5*time.Millisecond, 3)

	assert.False(t, s.Running())

	s.Start()
	assert.True(t, s.Running())

	// Second Start is a no-op.
	s.Start()
	assert.True(t, s.Running())

	time.Sleep(50 * time.Millisecond)
	calls := store.ListCalls()
	assert.GreaterOrEqual(t, calls, 1)
	// One loop ticking every 5ms fits in 50ms with slack. A second loop
	// leaked by the double Start would roughly double this.
	assert.LessOrEqual(t, calls, 13)

	s.Stop()
	assert.False(t, s.Running())
	s.Wait()

	// Stop on a stopped scheduler is safe.
	s.Stop()

	calls = store.ListCalls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, store.ListCalls())
}

func TestSchedulerRestart(t *testing.T) {
	store := newFakeStore()
	s := New(store, map[string]Publisher{}, 5*time.Millisecond, 3)

	s.Start()
	s.Stop()
	s.Wait()

	s.Start()
	assert.True(t, s.Running())
	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, store.ListCalls(), 1)
	s.Stop()
	s.Wait()
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 1*time.Minute, retryDelay(1))
	assert.Equal(t, 2*time.Minute, retryDelay(2))
	assert.Equal(t, 4*time.Minute, retryDelay(3))
	assert.Equal(t, 8*time.Minute, retryDelay(4))
}

func TestSplitHashtags(t *testing.T) {
	assert.Nil(t, splitHashtags(""))
	assert.Equal(t, []string{"#ai", "#golang"}, splitHashtags("#ai #golang"))
	assert.Equal(t, []string{"#ai", "#golang"}, splitHashtags("#ai,#golang"))
}
