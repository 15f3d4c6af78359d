package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/response"
)

type batchService interface {
	Create(ctx context.Context, req dto.BatchRequest) (*dto.BatchJobResponse, error)
	Status(ctx context.Context, id string) (*dto.BatchJobResponse, error)
	Download(ctx context.Context, id, token string) (*dto.BatchDownload, error)
}

// BatchHandler exposes asynchronous cohort checks.
type BatchHandler struct {
	batches batchService
}

// NewBatchHandler constructs the handler.
func NewBatchHandler(batches batchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// Create godoc
// @Summary Queue a batch eligibility check
// @Description Evaluates every student in the background and renders one CSV or PDF document.
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body dto.BatchRequest true "Cohort"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /eligibility/batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	if h.batches == nil {
		response.Error(c, appErrors.ErrBatchesDisabled)
		return
	}
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", strings.TrimSuffix(c.FullPath(), "/")+"/"+job.ID)
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Batch job status
// @Tags Batches
// @Produce json
// @Param id path string true "Batch job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /eligibility/batches/{id} [get]
func (h *BatchHandler) Status(c *gin.Context) {
	if h.batches == nil {
		response.Error(c, appErrors.ErrBatchesDisabled)
		return
	}
	job, err := h.batches.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Download godoc
// @Summary Download a finished batch document via signed token
// @Tags Batches
// @Produce octet-stream
// @Param id path string true "Batch job ID"
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /eligibility/batches/{id}/download [get]
func (h *BatchHandler) Download(c *gin.Context) {
	if h.batches == nil {
		response.Error(c, appErrors.ErrBatchesDisabled)
		return
	}
	token := c.Query("token")
	if strings.TrimSpace(token) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.batches.Download(c.Request.Context(), c.Param("id"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, result.File, nil)
}
