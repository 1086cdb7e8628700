package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, task Task) error {
	const query = `
INSERT INTO async_tasks (id, user_id, project_id, task_type, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`
	var projectID any
	if task.ProjectID != "" {
		projectID = task.ProjectID
	}
	_, err := r.DB.ExecContext(ctx, query, task.ID, task.UserID, projectID, task.Type, task.Status, task.CreatedAt)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, taskID, status string, result json.RawMessage, errorMessage string) error {
	const query = `
UPDATE async_tasks
SET status = $2,
    result_json = COALESCE($3::jsonb, result_json),
    error_message = $4,
    updated_at = now()
WHERE id = $1`
	var resultArg any
	if len(result) > 0 {
		resultArg = string(result)
	}
	var errArg any
	if errorMessage != "" {
		errArg = errorMessage
	}
	res, err := r.DB.ExecContext(ctx, query, taskID, status, resultArg, errArg)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, userID, taskID string) (Task, error) {
	const query = `
SELECT id, user_id, project_id, task_type, status, result_json, error_message, created_at, updated_at
FROM async_tasks
WHERE id = $1 AND user_id = $2`
	var task Task
	var projectID sql.NullString
	var result []byte
	var errorMessage sql.NullString
	err := r.DB.QueryRowContext(ctx, query, taskID, userID).Scan(
		&task.ID,
		&task.UserID,
		&projectID,
		&task.Type,
		&task.Status,
		&result,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	if projectID.Valid {
		task.ProjectID = projectID.String
	}
	if len(result) > 0 {
		task.Result = json.RawMessage(result)
	}
	if errorMessage.Valid {
		task.ErrorMessage = errorMessage.String
	}
	return task, nil
}

var _ Repo = (*PGRepo)(nil)
