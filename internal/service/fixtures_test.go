package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCacheRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type fakeCatalogStore struct {
	universities []models.University
	programs     []models.Program
	requirements []models.Requirement
	scholarships []models.Scholarship

	loads   int32
	err     error
	pingErr error
}

func (f *fakeCatalogStore) Universities(ctx context.Context) ([]models.University, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.universities, nil
}

func (f *fakeCatalogStore) Programs(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	out := make([]models.Program, len(f.programs))
	copy(out, f.programs)
	return out, nil
}

func (f *fakeCatalogStore) Requirements(ctx context.Context) ([]models.Requirement, error) {
	return f.requirements, nil
}

func (f *fakeCatalogStore) Scholarships(ctx context.Context) ([]models.Scholarship, error) {
	return f.scholarships, nil
}

func (f *fakeCatalogStore) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeCatalogStore) loadCount() int {
	return int(atomic.LoadInt32(&f.loads))
}

func sampleStore() *fakeCatalogStore {
	limit := 24
	return &fakeCatalogStore{
		universities: []models.University{
			{ID: "knust", Code: "KNUST", Name: "Kwame Nkrumah University of Science and Technology"},
			{ID: "ug", Code: "UG", Name: "University of Ghana"},
		},
		programs: []models.Program{
			{ID: "cs", Name: "BSc. Computer Science", UniversityID: "knust"},
			{ID: "law", Name: "LLB. Law", UniversityID: "ug"},
			{ID: "hist", Name: "BA. History", UniversityID: "ug"},
		},
		requirements: []models.Requirement{
			{ID: "r-cs", ProgramID: "cs", AggregatePoints: &limit},
			{ID: "r-law", ProgramID: "law", AggregatePoints: &limit},
			{ID: "r-hist", ProgramID: "hist", AggregatePoints: &limit},
		},
		scholarships: []models.Scholarship{
			{ID: "s1", Name: "Open Merit Award"},
			{ID: "s2", Name: "KNUST Engineering Bursary", UniversityID: "knust"},
			{ID: "s3", Name: "Legon Law Fund", UniversityID: "ug"},
		},
	}
}

func strongGrades() models.StudentGrades {
	return models.StudentGrades{
		English: "B2", Mathematics: "B3", Science: "C4", Social: "C5",
		Elective1Subject: "Elective Mathematics", Elective1Grade: "A1",
		Elective2Subject: "Physics", Elective2Grade: "B2",
		Elective3Subject: "Chemistry", Elective3Grade: "B3",
		Elective4Subject: "Biology", Elective4Grade: "C4",
	}
}
