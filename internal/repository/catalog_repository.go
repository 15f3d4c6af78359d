package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// CatalogRepository reads the programme catalog from PostgreSQL. Requirement shapes
// and string lists live in JSONB columns.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type programRow struct {
	models.Program
	CareerOutcomes []byte `db:"career_outcomes"`
}

type requirementRow struct {
	ID                     string         `db:"id"`
	ProgramID              string         `db:"program_id"`
	ApplicantType          sql.NullString `db:"applicant_type"`
	CoreSubjects           []byte         `db:"core_subjects"`
	ElectiveSubjects       []byte         `db:"elective_subjects"`
	AggregatePoints        sql.NullInt64  `db:"aggregate_points"`
	AdmissionTracks        []byte         `db:"admission_tracks"`
	RequirementComplexity  sql.NullString `db:"requirement_complexity"`
	AdditionalRequirements []byte         `db:"additional_requirements"`
}

type scholarshipRow struct {
	models.Scholarship
	Criteria []byte `db:"criteria"`
}

// Universities lists every university ordered by name.
func (r *CatalogRepository) Universities(ctx context.Context) ([]models.University, error) {
	const query = `SELECT id, code, name, COALESCE(location, '') AS location, COALESCE(type, '') AS type FROM universities ORDER BY name`
	var out []models.University
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return out, nil
}

// Programs lists programmes joined with their university name.
func (r *CatalogRepository) Programs(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	query := `SELECT p.id, p.name, p.university_id, u.name AS university_name, COALESCE(p.level, '') AS level, COALESCE(p.duration, '') AS duration, p.career_outcomes, p.average_salary, p.employment_rate FROM programs p JOIN universities u ON u.id = p.university_id`
	var args []interface{}
	if id := strings.TrimSpace(filter.UniversityID); id != "" {
		query += " WHERE LOWER(p.university_id) = $1 OR LOWER(u.code) = $1"
		args = append(args, strings.ToLower(id))
	}
	query += " ORDER BY u.name, p.name"

	var rows []programRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	out := make([]models.Program, len(rows))
	for i, row := range rows {
		out[i] = row.Program
		if err := decodeJSONB(row.CareerOutcomes, &out[i].CareerOutcomes); err != nil {
			return nil, fmt.Errorf("decode career outcomes for program %s: %w", row.ID, err)
		}
	}
	return out, nil
}

// Requirements lists every requirement record.
func (r *CatalogRepository) Requirements(ctx context.Context) ([]models.Requirement, error) {
	const query = `SELECT id, program_id, applicant_type, core_subjects, elective_subjects, aggregate_points, admission_tracks, requirement_complexity, additional_requirements FROM program_requirements ORDER BY program_id, id`
	var rows []requirementRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}

	out := make([]models.Requirement, 0, len(rows))
	for _, row := range rows {
		req := models.Requirement{
			ID:                    row.ID,
			ProgramID:             row.ProgramID,
			ApplicantType:         row.ApplicantType.String,
			RequirementComplexity: models.Complexity(row.RequirementComplexity.String),
		}
		if row.AggregatePoints.Valid {
			points := int(row.AggregatePoints.Int64)
			req.AggregatePoints = &points
		}
		// A column that does not decode is dropped and reported through req.Malformed.
		for _, col := range []struct {
			field string
			raw   []byte
		}{
			{"coreSubjects", row.CoreSubjects},
			{"electiveSubjects", row.ElectiveSubjects},
			{"admissionTracks", row.AdmissionTracks},
			{"additionalRequirements", row.AdditionalRequirements},
		} {
			raw := col.raw
			req.DecodeField(col.field, func(v interface{}) error { return decodeJSONB(raw, v) })
		}
		out = append(out, req)
	}
	return out, nil
}

// Scholarships lists scholarships ordered by deadline.
func (r *CatalogRepository) Scholarships(ctx context.Context) ([]models.Scholarship, error) {
	const query = `SELECT id, name, COALESCE(provider, '') AS provider, COALESCE(university_id, '') AS university_id, COALESCE(coverage, '') AS coverage, criteria, COALESCE(deadline, '') AS deadline FROM scholarships ORDER BY deadline, name`
	var rows []scholarshipRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	out := make([]models.Scholarship, len(rows))
	for i, row := range rows {
		out[i] = row.Scholarship
		if err := decodeJSONB(row.Criteria, &out[i].Criteria); err != nil {
			return nil, fmt.Errorf("decode criteria for scholarship %s: %w", row.ID, err)
		}
	}
	return out, nil
}

// Ping checks database connectivity.
func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func decodeJSONB(raw []byte, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
