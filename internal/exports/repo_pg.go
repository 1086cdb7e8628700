package exports

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, export Export) error {
	const query = `
INSERT INTO export_files (id, project_id, format, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		export.ID,
		export.ProjectID,
		export.Format,
		export.StorageKey,
		export.CreatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, exportID string) (Export, error) {
	const query = `
SELECT e.id, p.user_id, e.project_id, e.format, e.storage_key, e.created_at
FROM export_files e
JOIN resume_projects p ON p.id = e.project_id
WHERE e.id = $1 AND p.user_id = $2`
	var export Export
	err := r.DB.QueryRowContext(ctx, query, exportID, userID).Scan(
		&export.ID,
		&export.UserID,
		&export.ProjectID,
		&export.Format,
		&export.StorageKey,
		&export.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	return export, nil
}

var _ Repo = (*PGRepo)(nil)
