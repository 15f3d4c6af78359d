package dto

import (
	"io"
	"time"

	"github.com/noah-isme/admissions-eligibility-api/internal/eligibility"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// EligibilityRequest is the grade form plus an optional programme filter.
type EligibilityRequest struct {
	models.StudentGrades
	UniversityID string `json:"universityId,omitempty" validate:"max=64"`
}

// EligibilitySummary counts verdicts in a response.
type EligibilitySummary struct {
	Total          int `json:"total"`
	Eligible       int `json:"eligible"`
	MultipleTracks int `json:"multipleTracks"`
	Borderline     int `json:"borderline"`
	NotEligible    int `json:"notEligible"`
}

// EligibilityResponse carries ranked programme verdicts for one check.
type EligibilityResponse struct {
	Institution     string                     `json:"institution"`
	Results         []models.EligibilityResult `json:"results"`
	Summary         EligibilitySummary         `json:"summary"`
	BestCombination *eligibility.Combination   `json:"bestCombination,omitempty"`
	Shortfall       string                     `json:"shortfall,omitempty"`
	CatalogLoadedAt time.Time                  `json:"catalogLoadedAt"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
}

// CombinationsResponse lists every valid aggregate combination, best first.
type CombinationsResponse struct {
	Combinations []eligibility.Combination `json:"combinations"`
	Count        int                       `json:"count"`
	Shortfall    string                    `json:"shortfall,omitempty"`
}

// InstitutionResponse describes a registered eligibility dispatcher.
type InstitutionResponse struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Aliases          []string `json:"aliases,omitempty"`
	Borderline       bool     `json:"borderline"`
	BorderlineWindow int      `json:"borderlineWindow,omitempty"`
	SupportsTracks   bool     `json:"supportsTracks"`
	ProgramRules     int      `json:"programRules"`
}

// ExportRequest selects the results to render and the output format.
type ExportRequest struct {
	EligibilityRequest
	Institution string `json:"institution,omitempty" validate:"max=64"`
	Format      string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// BatchRequest submits a cohort for asynchronous evaluation.
type BatchRequest struct {
	Institution  string                `json:"institution,omitempty" validate:"max=64"`
	UniversityID string                `json:"universityId,omitempty" validate:"max=64"`
	Format       string                `json:"format" validate:"required,oneof=csv pdf"`
	Students     []models.BatchStudent `json:"students" validate:"required,min=1,dive"`
}

// BatchJobResponse reports the state of a batch job.
type BatchJobResponse struct {
	ID          string             `json:"id"`
	Institution string             `json:"institution"`
	Format      string             `json:"format"`
	Status      models.BatchStatus `json:"status"`
	Progress    int                `json:"progress"`
	Students    int                `json:"students"`
	Processed   int                `json:"processed"`
	DownloadURL string             `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	FinishedAt  *time.Time         `json:"finishedAt,omitempty"`
}

// BatchDownload is an opened batch document ready to stream.
type BatchDownload struct {
	File        io.ReadCloser
	Size        int64
	Filename    string
	ContentType string
}
