package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

// UpdateBatchJobParams defines the mutable fields of a batch job. Nil fields are left untouched.
type UpdateBatchJobParams struct {
	Status     *models.BatchStatus
	Progress   *int
	Processed  *int
	ResultPath *string
	Error      *string
	FinishedAt *time.Time
}

// BatchJobRepository keeps batch jobs in process memory. Results live on local disk, so jobs are node-local too.
type BatchJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*models.BatchJob
}

// NewBatchJobRepository constructs an empty repository.
func NewBatchJobRepository() *BatchJobRepository {
	return &BatchJobRepository{jobs: make(map[string]*models.BatchJob)}
}

// Create stores job, assigning an ID, status and creation time when unset.
func (r *BatchJobRepository) Create(_ context.Context, job *models.BatchJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.BatchStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	stored := *job
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = &stored
	return nil
}

// GetByID returns a copy of the job or ErrNotFound.
func (r *BatchJobRepository) GetByID(_ context.Context, id string) (*models.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch job not found")
	}
	out := *job
	return &out, nil
}

// Update applies params to the job identified by id.
func (r *BatchJobRepository) Update(_ context.Context, id string, params UpdateBatchJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "batch job not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.Processed != nil {
		job.Processed = *params.Processed
	}
	if params.ResultPath != nil {
		job.ResultPath = *params.ResultPath
	}
	if params.Error != nil {
		job.Error = *params.Error
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		job.FinishedAt = &finished
	}
	return nil
}

// ListFinishedBefore returns terminal jobs that finished before cutoff, oldest first.
func (r *BatchJobRepository) ListFinishedBefore(_ context.Context, cutoff time.Time) ([]models.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.BatchJob
	for _, job := range r.jobs {
		if job.Status.Terminal() && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	return out, nil
}

// Delete drops the job. Unknown IDs are ignored.
func (r *BatchJobRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}
