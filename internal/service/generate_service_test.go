package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type fakeTopicRepo struct {
	topics map[int64]*models.Topic
	nextID int64
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[int64]*models.Topic), nextID: 1}
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, id int64) (*models.Topic, bool, error) {
	t, ok := f.topics[id]
	if !ok {
		return nil, false, nil
	}
	return t, true, nil
}

func (f *fakeTopicRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Topic, error) {
	var out []*models.Topic
	for _, t := range f.topics {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) Create(ctx context.Context, tx *sql.Tx, topic *models.Topic) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *topic
	cp.ID = id
	cp.CreatedAt = time.Now()
	f.topics[id] = &cp
	return id, nil
}

func (f *fakeTopicRepo) CountPosts(ctx context.Context, topicID int64) (int, error) {
	return 0, nil
}

func (f *fakeTopicRepo) CheckByUserID(ctx context.Context, topicID, userID int64) (bool, error) {
	t, ok := f.topics[topicID]
	return ok && t.UserID == userID, nil
}

func (f *fakeTopicRepo) Remove(ctx context.Context, id int64) error {
	delete(f.topics, id)
	return nil
}

func newTestGenerateService(topics *fakeTopicRepo, posts *fakePostRepo, keys ApiKeyService) GenerateService {
	return NewGenerateService(config.Config{}, nil, topics, posts, keys)
}

func TestGenerateValidation(t *testing.T) {
	keys := NewApiKeyService(testConfig(), newFakeApiKeyRepo())
	s := newTestGenerateService(newFakeTopicRepo(), newFakePostRepo(), keys)
	ctx := context.Background()

	_, err := s.Generate(ctx, 0, &transfer.GenerateRequest{Topic: "x", Platforms: []string{"linkedin"}})
	assert.Error(t, err)

	_, err = s.Generate(ctx, 1, &transfer.GenerateRequest{Topic: "  ", Platforms: []string{"linkedin"}})
	assert.Error(t, err)

	_, err = s.Generate(ctx, 1, &transfer.GenerateRequest{Topic: "x", Platforms: nil})
	assert.Error(t, err)

	_, err = s.Generate(ctx, 1, &transfer.GenerateRequest{Topic: "x", Platforms: []string{"myspace"}})
	assert.Error(t, err)

	_, err = s.Generate(ctx, 1, &transfer.GenerateRequest{Topic: "x", Platforms: []string{"linkedin"}, Tone: "sarcastic"})
	assert.Error(t, err)
}

func TestGenerateRequiresLLMKey(t *testing.T) {
	keys := NewApiKeyService(testConfig(), newFakeApiKeyRepo())
	s := newTestGenerateService(newFakeTopicRepo(), newFakePostRepo(), keys)

	// A linkedin token alone does not make an LLM key.
	_, err := keys.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType: models.KeyTypeLinkedin,
		ApiKey:  "li-token-12345",
	})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), 1, &transfer.GenerateRequest{
		Topic:     "prompt engineering",
		Platforms: []string{"linkedin"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM API key")
}

func TestTopicOwnership(t *testing.T) {
	topics := newFakeTopicRepo()
	keys := NewApiKeyService(testConfig(), newFakeApiKeyRepo())
	s := newTestGenerateService(topics, newFakePostRepo(), keys)
	ctx := context.Background()

	id, err := topics.Create(ctx, nil, &models.Topic{UserID: 1, Name: "mine"})
	require.NoError(t, err)

	_, _, err = s.TopicInfo(ctx, 2, id)
	assert.Error(t, err)

	err = s.RemoveTopic(ctx, 2, id)
	assert.Error(t, err)

	err = s.RemoveTopic(ctx, 1, id)
	require.NoError(t, err)
}

func TestListTopics(t *testing.T) {
	topics := newFakeTopicRepo()
	keys := NewApiKeyService(testConfig(), newFakeApiKeyRepo())
	s := newTestGenerateService(topics, newFakePostRepo(), keys)
	ctx := context.Background()

	_, err := topics.Create(ctx, nil, &models.Topic{UserID: 1, Name: "one", Tone: models.ToneProfessional})
	require.NoError(t, err)
	_, err = topics.Create(ctx, nil, &models.Topic{UserID: 2, Name: "theirs"})
	require.NoError(t, err)

	infos, err := s.ListTopics(ctx, 1)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "one", infos[0].Name)
}
