package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planassist/internal/model"
)

type FileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFileRepository(db *pgxpool.Pool, logger *zap.Logger) *FileRepository {
	return &FileRepository{db: db, logger: logger}
}

func (r *FileRepository) Insert(ctx context.Context, f *model.File) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	query := `
        INSERT INTO files (id, project_id, name, url)
        VALUES ($1, $2, $3, $4)
    `
	_, err := r.db.Exec(ctx, query, f.ID, f.ProjectID, f.Name, f.URL)
	if err != nil {
		r.logger.Error("Failed to insert file record", zap.Error(err), zap.String("project_id", f.ProjectID.String()))
		return err
	}
	return nil
}

func (r *FileRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.File, error) {
	query := `
        SELECT id, project_id, name, url
        FROM files
        WHERE project_id = $1
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query files", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, err
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.URL); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
