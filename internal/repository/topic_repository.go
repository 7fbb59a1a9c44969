package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
)

type TopicRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Topic, bool, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Topic, error)
	Create(ctx context.Context, tx *sql.Tx, topic *models.Topic) (int64, error)
	CountPosts(ctx context.Context, topicID int64) (int, error)
	CheckByUserID(ctx context.Context, topicID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type topicRepository struct {
	db *sql.DB
}

func NewTopicRepository(db *sql.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, bool, error) {
	query := `SELECT id, user_id, name, description, tone, created_at FROM topics WHERE id = $1`

	var topic models.Topic
	err := r.db.QueryRowContext(ctx, query, id).Scan(&topic.ID, &topic.UserID, &topic.Name, &topic.Description, &topic.Tone, &topic.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &topic, true, nil
}

func (r *topicRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Topic, error) {
	query := `SELECT id, user_id, name, description, tone, created_at FROM topics WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var topic models.Topic
		err := rows.Scan(&topic.ID, &topic.UserID, &topic.Name, &topic.Description, &topic.Tone, &topic.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		topics = append(topics, &topic)
	}
	return topics, nil
}

func (r *topicRepository) Create(ctx context.Context, tx *sql.Tx, topic *models.Topic) (int64, error) {
	query := `
		INSERT INTO topics (user_id, name, description, tone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, topic.UserID, topic.Name, topic.Description, topic.Tone).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, topic.UserID, topic.Name, topic.Description, topic.Tone).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *topicRepository) CountPosts(ctx context.Context, topicID int64) (int, error) {
	query := `SELECT COUNT(*) FROM posts WHERE topic_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, topicID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *topicRepository) CheckByUserID(ctx context.Context, topicID, userID int64) (bool, error) {
	query := "SELECT 1 FROM topics WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, topicID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *topicRepository) Remove(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// posts and their error logs go with the topic
	if _, err := tx.ExecContext(ctx, `DELETE FROM error_logs WHERE post_id IN (SELECT id FROM posts WHERE topic_id = $1)`, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE topic_id = $1`, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		slog.Info(err.Error())
		return err
	}

	return tx.Commit()
}
