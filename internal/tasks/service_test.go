package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeboost-backend/internal/shared/telemetry"
)

func TestRunRecordsResult(t *testing.T) {
	defer telemetry.SetOutput(io.Discard)()
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	task, err := svc.Run(ctx, "u1", "p1", TypeScore, func(ctx context.Context) (any, error) {
		return map[string]int{"atsScore": 70}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDone, task.Status)
	assert.JSONEq(t, `{"atsScore":70}`, string(task.Result))
	assert.Empty(t, task.ErrorMessage)

	got, err := svc.Get(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestRunRecordsFailureWithoutFailing(t *testing.T) {
	defer telemetry.SetOutput(io.Discard)()
	svc := NewService(NewMemoryRepo())

	task, err := svc.Run(context.Background(), "u1", "p1", TypeParse, func(ctx context.Context) (any, error) {
		return nil, errors.New("source text is empty")
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, task.Status)
	assert.Equal(t, "source text is empty", task.ErrorMessage)
	assert.Nil(t, task.Result)
}

func TestRunObservesRunningState(t *testing.T) {
	defer telemetry.SetOutput(io.Discard)()
	repo := NewMemoryRepo()
	svc := NewService(repo)

	var seen string
	_, err := svc.Run(context.Background(), "u1", "", TypeExport, func(ctx context.Context) (any, error) {
		for _, task := range repo.tasks {
			seen = task.Status
		}
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, seen)
}

func TestGetIsOwnerScoped(t *testing.T) {
	defer telemetry.SetOutput(io.Discard)()
	svc := NewService(NewMemoryRepo())
	task, err := svc.Run(context.Background(), "u1", "p1", TypeScore, func(ctx context.Context) (any, error) { return json.RawMessage(`1`), nil })
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u2", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
