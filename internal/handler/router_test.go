package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/service"
)

func TestRegisterRoutes(t *testing.T) {
	eligibility := &eligibilityServiceStub{resp: &dto.EligibilityResponse{Institution: "ug"}}
	exports := &exportServiceStub{}
	batches := &batchServiceStub{}
	router := newTestRouter()
	RegisterRoutes(router, "/api/v1", Handlers{
		Eligibility: NewEligibilityHandler(eligibility),
		Catalog:     NewCatalogHandler(&catalogServiceStub{}),
		Export:      NewExportHandler(exports),
		Batch:       NewBatchHandler(batches),
		Metrics:     NewMetricsHandler(service.NewMetricsService(), nil),
	})

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/v1/metrics/summary", "/api/v1/universities", "/api/v1/programs", "/api/v1/scholarships", "/api/v1/institutions"} {
		rec := perform(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := perform(t, router, http.MethodPost, "/api/v1/eligibility/export", map[string]string{"format": "csv"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exports.req.Format)

	rec = perform(t, router, http.MethodPost, "/api/v1/eligibility/batches", map[string]string{"format": "pdf"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "pdf", batches.req.Format)
	assert.Empty(t, eligibility.institution)

	rec = perform(t, router, http.MethodGet, "/api/v1/eligibility/batches/job-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job-1", batches.id)

	rec = perform(t, router, http.MethodPost, "/api/v1/eligibility/ug", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ug", eligibility.institution)
}
