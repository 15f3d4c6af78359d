package models

// University is an admitting institution in the catalog.
type University struct {
	ID       string `db:"id" json:"id" yaml:"id"`
	Code     string `db:"code" json:"code" yaml:"code"`
	Name     string `db:"name" json:"name" yaml:"name"`
	Location string `db:"location" json:"location,omitempty" yaml:"location"`
	Type     string `db:"type" json:"type,omitempty" yaml:"type"`
}

// Program is a degree programme offered by a university.
type Program struct {
	ID             string   `db:"id" json:"id" yaml:"id"`
	Name           string   `db:"name" json:"name" yaml:"name"`
	UniversityID   string   `db:"university_id" json:"universityId" yaml:"universityId"`
	UniversityName string   `db:"university_name" json:"universityName" yaml:"universityName"`
	Level          string   `db:"level" json:"level,omitempty" yaml:"level"`
	Duration       string   `db:"duration" json:"duration,omitempty" yaml:"duration"`
	CareerOutcomes []string `db:"-" json:"careerOutcomes,omitempty" yaml:"careerOutcomes"`
	AverageSalary  *string  `db:"average_salary" json:"averageSalary,omitempty" yaml:"averageSalary"`
	EmploymentRate *float64 `db:"employment_rate" json:"employmentRate,omitempty" yaml:"employmentRate"`
}

// ProgramFilter narrows catalog listings.
type ProgramFilter struct {
	UniversityID string
}

// Scholarship is read-only catalog data surfaced next to eligibility results.
type Scholarship struct {
	ID           string   `db:"id" json:"id" yaml:"id"`
	Name         string   `db:"name" json:"name" yaml:"name"`
	Provider     string   `db:"provider" json:"provider,omitempty" yaml:"provider"`
	UniversityID string   `db:"university_id" json:"universityId,omitempty" yaml:"universityId"`
	Coverage     string   `db:"coverage" json:"coverage,omitempty" yaml:"coverage"`
	Criteria     []string `db:"-" json:"criteria,omitempty" yaml:"criteria"`
	Deadline     string   `db:"deadline" json:"deadline,omitempty" yaml:"deadline"`
}
