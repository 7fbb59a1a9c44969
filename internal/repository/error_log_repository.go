package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
)

type ErrorLogRepository interface {
	ListByPostID(ctx context.Context, postID int64) ([]*models.ErrorLog, error)
}

type errorLogRepository struct {
	db *sql.DB
}

func NewErrorLogRepository(db *sql.DB) ErrorLogRepository {
	return &errorLogRepository{db: db}
}

func (r *errorLogRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.ErrorLog, error) {
	query := `
		SELECT id, post_id, error_message, error_type, attempt_number, created_at
		FROM error_logs
		WHERE post_id = $1
		ORDER BY attempt_number ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ErrorLog
	for rows.Next() {
		var entry models.ErrorLog
		err := rows.Scan(&entry.ID, &entry.PostID, &entry.ErrorMessage, &entry.ErrorType, &entry.AttemptNumber, &entry.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		logs = append(logs, &entry)
	}
	return logs, nil
}
