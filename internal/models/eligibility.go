package models

import "time"

// EligibilityStatus is the verdict attached to a programme.
type EligibilityStatus string

const (
	StatusEligible       EligibilityStatus = "eligible"
	StatusBorderline     EligibilityStatus = "borderline"
	StatusNotEligible    EligibilityStatus = "not_eligible"
	StatusMultipleTracks EligibilityStatus = "multiple_tracks"
)

// AdmissionTrackResult reports the outcome of a single admission track.
type AdmissionTrackResult struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Status       EligibilityStatus `json:"status"`
	MatchDetails []string          `json:"matchDetails"`
}

// EligibilityResult is the per-programme output handed to API consumers.
type EligibilityResult struct {
	ProgramID             string                 `json:"programId"`
	ProgramName           string                 `json:"programName"`
	UniversityName        string                 `json:"universityName"`
	Status                EligibilityStatus      `json:"status"`
	Message               string                 `json:"message"`
	Details               []string               `json:"details"`
	Recommendations       []string               `json:"recommendations,omitempty"`
	MatchScore            int                    `json:"matchScore"`
	CareerOutcomes        []string               `json:"careerOutcomes,omitempty"`
	AverageSalary         *string                `json:"averageSalary,omitempty"`
	EmploymentRate        *float64               `json:"employmentRate,omitempty"`
	AdmissionTracks       []AdmissionTrackResult `json:"admissionTracks,omitempty"`
	BestTrackMatch        string                 `json:"bestTrackMatch,omitempty"`
	RequirementComplexity Complexity             `json:"requirementComplexity,omitempty"`
	UsedCombination       string                 `json:"usedCombination,omitempty"`
	CombinationFromBest   *bool                  `json:"combinationFromBest,omitempty"`
	MatchedRequirementID  string                 `json:"matchedRequirementId,omitempty"`
}

// SystemMetrics is a lightweight snapshot of service instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64           `json:"cache_hit_ratio"`
	CacheHits                uint64            `json:"cache_hits"`
	CacheMisses              uint64            `json:"cache_misses"`
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	CatalogQueryCount        uint64            `json:"catalog_query_count"`
	AverageCatalogQueryMs    float64           `json:"average_catalog_query_ms"`
	EligibilityChecks        uint64            `json:"eligibility_checks"`
	OutcomesByStatus         map[string]uint64 `json:"outcomes_by_status"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}
