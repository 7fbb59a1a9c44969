package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, bool, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	List(ctx context.Context, userID int64, status, platform string, limit, offset int) ([]*models.Post, int, error)
	ListByTopicID(ctx context.Context, topicID int64) ([]*models.Post, error)
	ListUpcoming(ctx context.Context, userID int64, limit int) ([]*models.Post, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Post, error)
	Stats(ctx context.Context, userID int64) (*transfer.PostStats, error)
	UpdateContent(ctx context.Context, id int64, content, hashtags string) error
	Approve(ctx context.Context, id int64, scheduledTime *time.Time) error
	Cancel(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64) error
	Claim(ctx context.Context, id int64) (bool, error)
	ResetProcessing(ctx context.Context) error
	MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) error
	RecordFailure(ctx context.Context, post *models.Post, entry *models.ErrorLog) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, topic_id, platform, content, hashtags, tone, status,
	scheduled_time, posted_at, platform_post_id, image_url, retry_count, last_error, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.UserID, &post.TopicID, &post.Platform, &post.Content,
		&post.Hashtags, &post.Tone, &post.Status, &post.ScheduledTime, &post.PostedAt,
		&post.PlatformPostID, &post.ImageURL, &post.RetryCount, &post.LastError,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, bool, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return post, true, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, topic_id, platform, content, hashtags, tone, status, scheduled_time, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{post.UserID, post.TopicID, post.Platform, post.Content, post.Hashtags,
		post.Tone, post.Status, post.ScheduledTime, post.ImageURL}

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) List(ctx context.Context, userID int64, status, platform string, limit, offset int) ([]*models.Post, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}

	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if platform != "" {
		args = append(args, platform)
		where += fmt.Sprintf(" AND platform = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts "+where, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM posts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		postColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, nil
}

func (r *postRepository) ListByTopicID(ctx context.Context, topicID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE topic_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) ListUpcoming(ctx context.Context, userID int64, limit int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = $2 AND scheduled_time IS NOT NULL
		ORDER BY scheduled_time ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, models.PostStatusPending, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1 AND (scheduled_time IS NULL OR scheduled_time <= $2)
	`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPending, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) Stats(ctx context.Context, userID int64) (*transfer.PostStats, error) {
	query := `SELECT status, COUNT(*) FROM posts WHERE user_id = $1 GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var stats transfer.PostStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		switch status {
		case models.PostStatusDraft:
			stats.Draft = count
		// An in-flight claim is still pending from the user's point of view.
		case models.PostStatusPending, models.PostStatusProcessing:
			stats.Pending += count
		case models.PostStatusPosted:
			stats.Posted = count
		case models.PostStatusFailed:
			stats.Failed = count
		}
		stats.Total += count
	}
	return &stats, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id int64, content, hashtags string) error {
	query := `UPDATE posts SET content = $1, hashtags = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, content, hashtags, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Approve(ctx context.Context, id int64, scheduledTime *time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			scheduled_time = $2,
			retry_count = 0,
			last_error = NULL,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPending, scheduledTime, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE posts SET status = $1, scheduled_time = NULL, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusDraft, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Retry(ctx context.Context, id int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			retry_count = 0,
			last_error = NULL,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPending, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Claim flips a pending post to processing. The conditional update makes the
// claim atomic: of the poller and a queue worker racing for the same post,
// exactly one sees an affected row and gets to publish.
func (r *postRepository) Claim(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusProcessing, time.Now(), id, models.PostStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

// ResetProcessing returns posts stranded in processing by a crash to the
// pending pool. Called once at startup, before the scheduler runs.
func (r *postRepository) ResetProcessing(ctx context.Context) error {
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE status = $3`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPending, time.Now(), models.PostStatusProcessing)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			posted_at = $2,
			platform_post_id = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPosted, postedAt, platformPostID, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// RecordFailure persists the retry-state mutation and its error log entry in a
// single transaction so a post is never half-updated.
func (r *postRepository) RecordFailure(ctx context.Context, post *models.Post, entry *models.ErrorLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE posts
		SET status = $1,
			scheduled_time = $2,
			retry_count = $3,
			last_error = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err = tx.ExecContext(ctx, updateQuery, post.Status, post.ScheduledTime,
		post.RetryCount, post.LastError, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	insertQuery := `
		INSERT INTO error_logs (post_id, error_message, error_type, attempt_number)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, insertQuery, entry.PostID, entry.ErrorMessage, entry.ErrorType, entry.AttemptNumber)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return tx.Commit()
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM error_logs WHERE post_id = $1`, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		slog.Info(err.Error())
		return err
	}

	return tx.Commit()
}
