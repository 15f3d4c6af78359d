package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Eligibility *EligibilityHandler
	Catalog     *CatalogHandler
	Export      *ExportHandler
	Batch       *BatchHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts probes at the root of r and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)
	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}
	if h.Catalog != nil {
		api.GET("/universities", h.Catalog.Universities)
		api.GET("/programs", h.Catalog.Programs)
		api.GET("/scholarships", h.Catalog.Scholarships)
	}
	if h.Eligibility != nil {
		api.GET("/institutions", h.Eligibility.Institutions)
		api.POST("/eligibility", h.Eligibility.CheckAll)
		api.POST("/eligibility/combinations", h.Eligibility.Combinations)
	}
	if h.Export != nil {
		api.POST("/eligibility/export", h.Export.Export)
	}
	if h.Batch != nil {
		api.POST("/eligibility/batches", h.Batch.Create)
		api.GET("/eligibility/batches/:id", h.Batch.Status)
		api.GET("/eligibility/batches/:id/download", h.Batch.Download)
	}
	if h.Eligibility != nil {
		api.POST("/eligibility/:institution", h.Eligibility.CheckInstitution)
	}
}
