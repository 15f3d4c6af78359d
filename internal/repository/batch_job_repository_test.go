package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

func TestBatchJobRepositoryLifecycle(t *testing.T) {
	repo := NewBatchJobRepository()
	ctx := context.Background()

	job := &models.BatchJob{Institution: "knust", Format: "csv"}
	require.NoError(t, repo.Create(ctx, job))
	require.NotEmpty(t, job.ID)
	assert.Equal(t, models.BatchStatusQueued, job.Status)

	status := models.BatchStatusFinished
	progress := 100
	path := "batches/x.csv"
	finished := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Update(ctx, job.ID, UpdateBatchJobParams{
		Status: &status, Progress: &progress, ResultPath: &path, FinishedAt: &finished,
	}))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusFinished, got.Status)
	assert.Equal(t, path, got.ResultPath)
	assert.Equal(t, 100, got.Progress)

	got.Status = models.BatchStatusFailed
	again, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusFinished, again.Status)

	expired, err := repo.ListFinishedBefore(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)

	require.NoError(t, repo.Delete(ctx, job.ID))
	_, err = repo.GetByID(ctx, job.ID)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBatchJobRepositoryUpdateUnknown(t *testing.T) {
	repo := NewBatchJobRepository()
	progress := 5
	assert.Error(t, repo.Update(context.Background(), "missing", UpdateBatchJobParams{Progress: &progress}))
}
