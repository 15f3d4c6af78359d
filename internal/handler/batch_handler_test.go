package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

type batchServiceStub struct {
	req   dto.BatchRequest
	id    string
	token string
	err   error
}

func (s *batchServiceStub) Create(ctx context.Context, req dto.BatchRequest) (*dto.BatchJobResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.BatchJobResponse{ID: "job-1", Status: models.BatchStatusQueued, Students: len(req.Students), Format: req.Format}, nil
}

func (s *batchServiceStub) Status(ctx context.Context, id string) (*dto.BatchJobResponse, error) {
	s.id = id
	if s.err != nil {
		return nil, s.err
	}
	return &dto.BatchJobResponse{ID: id, Status: models.BatchStatusFinished, Progress: 100, DownloadURL: "/eligibility/batches/" + id + "/download?token=t"}, nil
}

func (s *batchServiceStub) Download(ctx context.Context, id, token string) (*dto.BatchDownload, error) {
	s.id, s.token = id, token
	if s.err != nil {
		return nil, s.err
	}
	body := "Student,Rank\nSTU-1,1\n"
	return &dto.BatchDownload{
		File:        io.NopCloser(strings.NewReader(body)),
		Size:        int64(len(body)),
		Filename:    id + ".csv",
		ContentType: "text/csv; charset=utf-8",
	}, nil
}

func newBatchRouter(stub batchService) http.Handler {
	h := NewBatchHandler(stub)
	router := newTestRouter()
	router.POST("/eligibility/batches", h.Create)
	router.GET("/eligibility/batches/:id", h.Status)
	router.GET("/eligibility/batches/:id/download", h.Download)
	return router
}

func TestBatchHandlerCreateAccepted(t *testing.T) {
	stub := &batchServiceStub{}
	rec := perform(t, newBatchRouter(stub), http.MethodPost, "/eligibility/batches", map[string]interface{}{
		"institution": "knust",
		"format":      "csv",
		"students":    []map[string]interface{}{{"reference": "STU-1", "grades": map[string]string{"english": "B2"}}},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "/eligibility/batches/job-1", rec.Header().Get("Location"))
	require.Len(t, stub.req.Students, 1)
	assert.Equal(t, "B2", stub.req.Students[0].Grades.English)

	var job dto.BatchJobResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &job))
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, models.BatchStatusQueued, job.Status)
}

func TestBatchHandlerStatus(t *testing.T) {
	stub := &batchServiceStub{}
	rec := perform(t, newBatchRouter(stub), http.MethodGet, "/eligibility/batches/job-9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job-9", stub.id)

	rec = perform(t, newBatchRouter(&batchServiceStub{err: appErrors.ErrNotFound}), http.MethodGet, "/eligibility/batches/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchHandlerDownloadStreams(t *testing.T) {
	stub := &batchServiceStub{}
	rec := perform(t, newBatchRouter(stub), http.MethodGet, "/eligibility/batches/job-1/download?token=abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", stub.token)
	assert.Equal(t, `attachment; filename="job-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "STU-1,1")
}

func TestBatchHandlerErrors(t *testing.T) {
	rec := perform(t, newBatchRouter(&batchServiceStub{}), http.MethodGet, "/eligibility/batches/job-1/download", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, newBatchRouter(&batchServiceStub{err: appErrors.ErrBatchNotReady}), http.MethodGet, "/eligibility/batches/job-1/download?token=abc", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = perform(t, newBatchRouter(&batchServiceStub{}), http.MethodPost, "/eligibility/batches", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, newBatchRouter(nil), http.MethodPost, "/eligibility/batches", map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
