package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

func newCatalogRepoMock(t *testing.T) (*CatalogRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewCatalogRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestCatalogRepositoryPrograms(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "university_id", "university_name", "level", "duration", "career_outcomes", "average_salary", "employment_rate"}).
		AddRow("p1", "BSc. Computer Science", "knust", "Kwame Nkrumah University of Science and Technology", "undergraduate", "4 years", []byte(`["Software Engineer","Data Analyst"]`), "GHS 5,000", 0.87).
		AddRow("p2", "BSc. Nursing", "knust", "Kwame Nkrumah University of Science and Technology", "", "", nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM programs p JOIN universities u ON u.id = p.university_id WHERE LOWER(p.university_id) = $1 OR LOWER(u.code) = $1 ORDER BY u.name, p.name")).
		WithArgs("knust").
		WillReturnRows(rows)

	programs, err := repo.Programs(context.Background(), models.ProgramFilter{UniversityID: "KNUST"})
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, []string{"Software Engineer", "Data Analyst"}, programs[0].CareerOutcomes)
	require.NotNil(t, programs[0].EmploymentRate)
	assert.InDelta(t, 0.87, *programs[0].EmploymentRate, 0.0001)
	assert.Nil(t, programs[1].CareerOutcomes)
	assert.Nil(t, programs[1].AverageSalary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryRequirements(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "program_id", "applicant_type", "core_subjects", "elective_subjects", "aggregate_points", "admission_tracks", "requirement_complexity", "additional_requirements"}).
		AddRow("r1", "p1", "wassce",
			[]byte(`{"English Language":"C6","Core Mathematics":"C6"}`),
			[]byte(`[{"subject":"Elective Mathematics","minGrade":"B3"},{"subject":"Science","type":"any","count":2}]`),
			24,
			[]byte(`[{"name":"Science track","electiveOptions":[{"subject":"Physics"}]}]`),
			"advanced",
			[]byte(`["Interview"]`)).
		AddRow("r2", "p2", nil, []byte(`"not-an-object"`), nil, nil, nil, nil, nil)
	mock.ExpectQuery("SELECT id, program_id, applicant_type, core_subjects .* FROM program_requirements").
		WillReturnRows(rows)

	reqs, err := repo.Requirements(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	first := reqs[0]
	assert.Equal(t, models.CoreKindFlat, first.CoreSubjects.Kind)
	require.Len(t, first.ElectiveSubjects, 2)
	assert.Equal(t, models.ElectiveAny, first.ElectiveSubjects[1].Kind())
	require.NotNil(t, first.AggregatePoints)
	assert.Equal(t, 24, *first.AggregatePoints)
	assert.Equal(t, models.ComplexityAdvanced, first.RequirementComplexity)
	require.Len(t, first.AdmissionTracks, 1)
	assert.Equal(t, []string{"Interview"}, first.AdditionalRequirements)

	assert.Empty(t, first.Malformed)

	second := reqs[1]
	assert.True(t, second.CoreSubjects.IsZero())
	assert.Nil(t, second.AggregatePoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryRequirementsDropsBadColumns(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "program_id", "applicant_type", "core_subjects", "elective_subjects", "aggregate_points", "admission_tracks", "requirement_complexity", "additional_requirements"}).
		AddRow("r1", "p1", nil, nil, []byte(`{"subject":1}`), 20, []byte(`"track"`), nil, []byte(`["Interview"]`)).
		AddRow("r2", "p2", nil, nil, []byte(`[{"subject":"Physics"}]`), nil, nil, nil, nil)
	mock.ExpectQuery("FROM program_requirements").WillReturnRows(rows)

	reqs, err := repo.Requirements(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Nil(t, reqs[0].ElectiveSubjects)
	assert.Nil(t, reqs[0].AdmissionTracks)
	require.NotNil(t, reqs[0].AggregatePoints)
	assert.Equal(t, 20, *reqs[0].AggregatePoints)
	assert.Equal(t, []string{"Interview"}, reqs[0].AdditionalRequirements)
	assert.Equal(t, []string{"electiveSubjects", "admissionTracks"}, reqs[0].Malformed)

	assert.Empty(t, reqs[1].Malformed)
	require.Len(t, reqs[1].ElectiveSubjects, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryUniversitiesAndScholarships(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM universities ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "location", "type"}).
			AddRow("ug", "ug", "University of Ghana", "Legon", "public"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM scholarships ORDER BY deadline, name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "provider", "university_id", "coverage", "criteria", "deadline"}).
			AddRow("s1", "Merit Award", "GETFund", "ug", "full", []byte(`["Aggregate 6-10"]`), "2026-08-31"))

	universities, err := repo.Universities(context.Background())
	require.NoError(t, err)
	require.Len(t, universities, 1)
	assert.Equal(t, "Legon", universities[0].Location)

	scholarships, err := repo.Scholarships(context.Background())
	require.NoError(t, err)
	require.Len(t, scholarships, 1)
	assert.Equal(t, []string{"Aggregate 6-10"}, scholarships[0].Criteria)
	assert.NoError(t, mock.ExpectationsWereMet())
}
