package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/middleware"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/response"
)

type eligibilityService interface {
	Institutions() []dto.InstitutionResponse
	Combinations(ctx context.Context, grades models.StudentGrades) (*dto.CombinationsResponse, error)
	Check(ctx context.Context, institution string, req dto.EligibilityRequest) (*dto.EligibilityResponse, bool, error)
}

// EligibilityHandler wires grade evaluation to HTTP endpoints.
type EligibilityHandler struct {
	service eligibilityService
}

// NewEligibilityHandler constructs the handler.
func NewEligibilityHandler(service eligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: service}
}

// Institutions godoc
// @Summary List eligibility dispatchers
// @Tags Eligibility
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutions [get]
func (h *EligibilityHandler) Institutions(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.OK(c, h.service.Institutions())
}

// Combinations godoc
// @Summary Rank valid aggregate combinations
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param payload body models.StudentGrades true "Grades"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /eligibility/combinations [post]
func (h *EligibilityHandler) Combinations(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var grades models.StudentGrades
	if err := c.ShouldBindJSON(&grades); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	combos, err := h.service.Combinations(c.Request.Context(), grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, combos, middleware.ExtractMeta(c))
}

// CheckAll godoc
// @Summary Check eligibility for every programme
// @Description Each programme is evaluated with the rules of its own university.
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param payload body dto.EligibilityRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /eligibility [post]
func (h *EligibilityHandler) CheckAll(c *gin.Context) {
	h.check(c, "")
}

// CheckInstitution godoc
// @Summary Check eligibility for one institution's programmes
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param institution path string true "Institution code, e.g. knust, ug, ucc, uew, offline"
// @Param payload body dto.EligibilityRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /eligibility/{institution} [post]
func (h *EligibilityHandler) CheckInstitution(c *gin.Context) {
	h.check(c, strings.TrimSpace(c.Param("institution")))
}

func (h *EligibilityHandler) check(c *gin.Context, institution string) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, cacheHit, err := h.service.Check(c.Request.Context(), institution, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, result, middleware.ExtractMeta(c))
}
