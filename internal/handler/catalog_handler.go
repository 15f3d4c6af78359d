package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/response"
)

type catalogService interface {
	Universities(ctx context.Context) ([]models.University, error)
	Programs(ctx context.Context, filter models.ProgramFilter, page, pageSize int) ([]models.Program, *models.Pagination, error)
	Scholarships(ctx context.Context, universityID string) ([]models.Scholarship, error)
}

// CatalogHandler exposes read-only catalog listings.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Universities godoc
// @Summary List universities
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /universities [get]
func (h *CatalogHandler) Universities(c *gin.Context) {
	if h.catalog == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	items, err := h.catalog.Universities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Programs godoc
// @Summary List programmes
// @Tags Catalog
// @Produce json
// @Param universityId query string false "University ID or code"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *CatalogHandler) Programs(c *gin.Context) {
	if h.catalog == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be a number"))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pageSize must be a number"))
		return
	}
	filter := models.ProgramFilter{UniversityID: strings.TrimSpace(c.Query("universityId"))}
	items, pagination, err := h.catalog.Programs(c.Request.Context(), filter, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Scholarships godoc
// @Summary List scholarships
// @Tags Catalog
// @Produce json
// @Param universityId query string false "University ID or code"
// @Success 200 {object} response.Envelope
// @Router /scholarships [get]
func (h *CatalogHandler) Scholarships(c *gin.Context) {
	if h.catalog == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	items, err := h.catalog.Scholarships(c.Request.Context(), strings.TrimSpace(c.Query("universityId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
