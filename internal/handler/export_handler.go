package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportFile, error)
}

// ExportHandler serves eligibility results as CSV or PDF downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Download eligibility results
// @Tags Eligibility
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf; overrides the body field"
// @Param payload body dto.ExportRequest true "Grades and export options"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /eligibility/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrExportsDisabled)
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if format := c.Query("format"); format != "" {
		req.Format = format
	}
	file, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
