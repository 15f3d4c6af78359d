package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	"github.com/noah-isme/admissions-eligibility-api/internal/repository"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/export"
	"github.com/noah-isme/admissions-eligibility-api/pkg/jobs"
	"github.com/noah-isme/admissions-eligibility-api/pkg/middleware/requestid"
	"github.com/noah-isme/admissions-eligibility-api/pkg/storage"
)

type batchJobStore interface {
	Create(ctx context.Context, job *models.BatchJob) error
	GetByID(ctx context.Context, id string) (*models.BatchJob, error)
	Update(ctx context.Context, id string, params repository.UpdateBatchJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.BatchJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type batchFileStore interface {
	Save(name string, data []byte) error
	Open(name string) (*os.File, int64, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type downloadSigner interface {
	Sign(jobID, path string) (string, time.Time, error)
	Verify(token string) (storage.DownloadClaims, error)
}

// BatchServiceConfig governs batch limits, retention and download links.
type BatchServiceConfig struct {
	Enabled         bool
	MaxStudents     int
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	// BasePath prefixes generated download links, e.g. /api/v1/eligibility/batches.
	BasePath string
}

// BatchService accepts cohort submissions and serves their results.
type BatchService struct {
	repo      batchJobStore
	queue     jobDispatcher
	files     batchFileStore
	signer    downloadSigner
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       BatchServiceConfig
}

// NewBatchService constructs the batch service.
func NewBatchService(repo batchJobStore, queue jobDispatcher, files batchFileStore, signer downloadSigner, metrics *MetricsService, logger *zap.Logger, cfg BatchServiceConfig) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxStudents <= 0 {
		cfg.MaxStudents = 200
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &BatchService{
		repo:      repo,
		queue:     queue,
		files:     files,
		signer:    signer,
		validator: validator.New(),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Create validates req, stores a queued job and hands it to the worker pool.
func (s *BatchService) Create(ctx context.Context, req dto.BatchRequest) (*dto.BatchJobResponse, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrBatchesDisabled
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.StructCtx(ctx, req); err != nil {
		if req.Format != "" && req.Format != "csv" && req.Format != "pdf" {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format "+strconv.Quote(req.Format))
		}
		return nil, appErrors.Validation(err, "invalid batch request")
	}
	if len(req.Students) > s.cfg.MaxStudents {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a batch may contain at most %d students", s.cfg.MaxStudents))
	}

	institution := strings.TrimSpace(req.Institution)
	if institution == "" {
		institution = InstitutionAll
	}
	job := &models.BatchJob{
		Institution:  institution,
		UniversityID: req.UniversityID,
		Format:       req.Format,
		Students:     req.Students,
		Status:       models.BatchStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID}); err != nil {
		failed := models.BatchStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		_ = s.repo.Update(ctx, job.ID, repository.UpdateBatchJobParams{Status: &failed, Error: &msg, FinishedAt: &now})
		s.metrics.ObserveBatchJob(string(failed))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue batch job")
	}
	s.metrics.ObserveBatchJob(string(job.Status))
	s.logger.Info("batch job queued",
		zap.String("job_id", job.ID),
		zap.String("institution", institution),
		zap.Int("students", len(job.Students)),
		zap.String("request_id", requestid.FromContext(ctx)),
	)
	return s.describe(job), nil
}

// Status reports progress, with a signed download link once the job has finished.
func (s *BatchService) Status(ctx context.Context, id string) (*dto.BatchJobResponse, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrBatchesDisabled
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.describe(job)
	if job.Status == models.BatchStatusFinished && job.ResultPath != "" {
		token, expiresAt, err := s.signer.Sign(job.ID, job.ResultPath)
		if err != nil {
			s.logger.Warn("sign batch download", zap.String("job_id", job.ID), zap.Error(err))
			return resp, nil
		}
		resp.DownloadURL = fmt.Sprintf("%s/%s/download?token=%s", strings.TrimSuffix(s.cfg.BasePath, "/"), job.ID, url.QueryEscape(token))
		resp.ExpiresAt = &expiresAt
	}
	return resp, nil
}

// Download verifies token against job id and opens the rendered document.
func (s *BatchService) Download(ctx context.Context, id, token string) (*dto.BatchDownload, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrBatchesDisabled
	}
	claims, err := s.signer.Verify(token)
	if err != nil || claims.JobID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.BatchStatusFinished {
		return nil, appErrors.ErrBatchNotReady
	}
	if job.ResultPath != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token does not match batch result")
	}
	file, size, err := s.files.Open(job.ResultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch result has expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open batch result")
	}
	return &dto.BatchDownload{
		File:        file,
		Size:        size,
		Filename:    path.Base(job.ResultPath),
		ContentType: contentTypeFor(job.Format),
	}, nil
}

// StartCleanup purges expired jobs and their files every CleanupInterval until ctx ends.
func (s *BatchService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup(ctx)
			}
		}
	}()
}

// Cleanup drops jobs that finished more than ResultTTL ago and sweeps stray files.
func (s *BatchService) Cleanup(ctx context.Context) int {
	expired, err := s.repo.ListFinishedBefore(ctx, time.Now().Add(-s.cfg.ResultTTL))
	if err != nil {
		s.logger.Warn("list expired batch jobs", zap.Error(err))
		return 0
	}
	for _, job := range expired {
		if job.ResultPath != "" {
			if err := s.files.Delete(job.ResultPath); err != nil {
				s.logger.Warn("delete batch result", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		_ = s.repo.Delete(ctx, job.ID)
	}
	if _, err := s.files.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("sweep batch results", zap.Error(err))
	}
	if len(expired) > 0 {
		s.logger.Info("batch jobs expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

func (s *BatchService) describe(job *models.BatchJob) *dto.BatchJobResponse {
	return &dto.BatchJobResponse{
		ID:          job.ID,
		Institution: job.Institution,
		Format:      job.Format,
		Status:      job.Status,
		Progress:    job.Progress,
		Students:    len(job.Students),
		Processed:   job.Processed,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		FinishedAt:  job.FinishedAt,
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "pdf":
		return "application/pdf"
	case "csv":
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// BatchWorkerConfig tunes the batch worker.
type BatchWorkerConfig struct {
	// TopPerStudent caps the programme rows written for each student.
	TopPerStudent int
	MaxRetries    int
}

// BatchWorker evaluates queued batch jobs and stores the rendered document.
type BatchWorker struct {
	repo      batchJobStore
	checker   eligibilityChecker
	files     batchFileStore
	renderers map[string]export.Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       BatchWorkerConfig
}

// NewBatchWorker constructs a worker. Renderers are keyed by their file extension.
func NewBatchWorker(repo batchJobStore, checker eligibilityChecker, files batchFileStore, metrics *MetricsService, logger *zap.Logger, cfg BatchWorkerConfig, renderers ...export.Renderer) *BatchWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopPerStudent <= 0 {
		cfg.TopPerStudent = 5
	}
	byExt := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byExt[r.Extension()] = r
	}
	return &BatchWorker{
		repo:      repo,
		checker:   checker,
		files:     files,
		renderers: byExt,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Handle processes one queued job. Client errors fail the job at once; other errors are retried by the queue.
func (w *BatchWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if record.Status.Terminal() {
		return nil
	}

	processing := models.BatchStatusProcessing
	progress := 5
	zero := 0
	if err := w.repo.Update(ctx, job.ID, repository.UpdateBatchJobParams{Status: &processing, Progress: &progress, Processed: &zero}); err != nil {
		return err
	}

	resultPath, err := w.process(ctx, record)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	finished := models.BatchStatusFinished
	progress = 100
	now := time.Now().UTC()
	noError := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateBatchJobParams{
		Status:     &finished,
		Progress:   &progress,
		ResultPath: &resultPath,
		Error:      &noError,
		FinishedAt: &now,
	}); err != nil {
		return err
	}
	w.metrics.ObserveBatchJob(string(finished))
	w.logger.Info("batch job finished", zap.String("job_id", job.ID), zap.String("file", resultPath))
	return nil
}

func (w *BatchWorker) process(ctx context.Context, record *models.BatchJob) (string, error) {
	renderer, ok := w.renderers[record.Format]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format "+strconv.Quote(record.Format))
	}

	total := len(record.Students)
	rows := make([]map[string]string, 0, total*w.cfg.TopPerStudent)
	for i, student := range record.Students {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, _, err := w.checker.Check(ctx, record.Institution, dto.EligibilityRequest{
			StudentGrades: student.Grades,
			UniversityID:  record.UniversityID,
		})
		if err != nil {
			return "", fmt.Errorf("student %s: %w", student.Reference, err)
		}
		rows = append(rows, w.studentRows(student.Reference, resp)...)

		processed := i + 1
		progress := 5 + 85*processed/total
		if err := w.repo.Update(ctx, record.ID, repository.UpdateBatchJobParams{Progress: &progress, Processed: &processed}); err != nil {
			return "", err
		}
	}

	dataset := export.Dataset{
		Title: "Batch programme eligibility",
		Notes: []string{
			"Institution: " + record.Institution,
			fmt.Sprintf("Students: %d", total),
			fmt.Sprintf("Top %d programmes per student", w.cfg.TopPerStudent),
			"Generated: " + time.Now().UTC().Format(time.RFC1123),
		},
		Headers: batchHeaders,
		Rows:    rows,
		Widths:  []float64{1.2, 0.5, 2, 1.5, 1, 0.6, 0.8, 2.5},
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return "", fmt.Errorf("render batch: %w", err)
	}
	name := path.Join("batches", record.ID+"."+renderer.Extension())
	if err := w.files.Save(name, payload); err != nil {
		return "", err
	}
	return name, nil
}

var batchHeaders = []string{"Student", "Rank", "Programme", "University", "Status", "Score", "Aggregate", "Shortfall"}

func (w *BatchWorker) studentRows(reference string, resp *dto.EligibilityResponse) []map[string]string {
	aggregate := ""
	if resp.BestCombination != nil {
		aggregate = strconv.Itoa(resp.BestCombination.Aggregate)
	}
	results := resp.Results
	if len(results) > w.cfg.TopPerStudent {
		results = results[:w.cfg.TopPerStudent]
	}
	if len(results) == 0 {
		return []map[string]string{{
			"Student":   reference,
			"Status":    "no programmes",
			"Aggregate": aggregate,
			"Shortfall": resp.Shortfall,
		}}
	}
	rows := make([]map[string]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, map[string]string{
			"Student":    reference,
			"Rank":       strconv.Itoa(i + 1),
			"Programme":  r.ProgramName,
			"University": r.UniversityName,
			"Status":     statusLabel(string(r.Status)),
			"Score":      strconv.Itoa(r.MatchScore),
			"Aggregate":  aggregate,
			"Shortfall":  resp.Shortfall,
		})
	}
	return rows
}

func (w *BatchWorker) fail(ctx context.Context, job jobs.Job, cause error) error {
	msg := cause.Error()
	permanent := appErrors.FromError(cause).Status < http.StatusInternalServerError
	if !permanent && job.Attempt < w.cfg.MaxRetries {
		queued := models.BatchStatusQueued
		if err := w.repo.Update(ctx, job.ID, repository.UpdateBatchJobParams{Status: &queued, Error: &msg}); err != nil {
			w.logger.Warn("mark batch job queued", zap.String("job_id", job.ID), zap.Error(err))
		}
		return cause
	}

	failed := models.BatchStatusFailed
	progress := 100
	now := time.Now().UTC()
	if err := w.repo.Update(ctx, job.ID, repository.UpdateBatchJobParams{
		Status:     &failed,
		Progress:   &progress,
		Error:      &msg,
		FinishedAt: &now,
	}); err != nil {
		w.logger.Warn("mark batch job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	w.metrics.ObserveBatchJob(string(failed))
	w.logger.Warn("batch job failed", zap.String("job_id", job.ID), zap.Bool("permanent", permanent), zap.Error(cause))
	if permanent {
		return nil
	}
	return cause
}
