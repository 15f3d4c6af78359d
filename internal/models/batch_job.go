package models

import "time"

// BatchStatus tracks a batch eligibility job through the worker.
type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusFinished   BatchStatus = "finished"
	BatchStatusFailed     BatchStatus = "failed"
)

// Terminal reports whether the job will not change again.
func (s BatchStatus) Terminal() bool {
	return s == BatchStatusFinished || s == BatchStatusFailed
}

// BatchStudent is one row of a batch submission.
type BatchStudent struct {
	Reference string        `json:"reference" validate:"required,max=64"`
	Grades    StudentGrades `json:"grades"`
}

// BatchJob evaluates a cohort of students and renders a single document.
type BatchJob struct {
	ID           string         `json:"id"`
	Institution  string         `json:"institution"`
	UniversityID string         `json:"universityId,omitempty"`
	Format       string         `json:"format"`
	Students     []BatchStudent `json:"-"`
	Status       BatchStatus    `json:"status"`
	Progress     int            `json:"progress"`
	Processed    int            `json:"processed"`
	ResultPath   string         `json:"-"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	FinishedAt   *time.Time     `json:"finishedAt,omitempty"`
}
