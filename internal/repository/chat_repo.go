package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planassist/internal/model"
)

type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{db: db, logger: logger}
}

func (r *ChatRepository) Append(ctx context.Context, c *model.ChatHistory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
        INSERT INTO chat_histories (id, user_id, project_id, sender, message)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.ProjectID, c.Sender, c.Message)
	if err != nil {
		r.logger.Error("Failed to append chat message", zap.Error(err), zap.String("project_id", c.ProjectID.String()))
		return err
	}
	return nil
}

func (r *ChatRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatHistory, error) {
	query := `
        SELECT id, user_id, project_id, sender, message, timestamp
        FROM chat_histories
        WHERE project_id = $1
        ORDER BY timestamp
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query chat history", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, err
	}
	defer rows.Close()

	history := []model.ChatHistory{}
	for rows.Next() {
		var c model.ChatHistory
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProjectID, &c.Sender, &c.Message, &c.Timestamp); err != nil {
			return nil, err
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

func (r *ChatRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_histories WHERE project_id = $1`, projectID)
	if err != nil {
		r.logger.Error("Failed to clear chat history", zap.Error(err), zap.String("project_id", projectID.String()))
	}
	return err
}
