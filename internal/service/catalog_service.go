package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

// CatalogStore reads the programme catalog from a backing source.
type CatalogStore interface {
	Universities(ctx context.Context) ([]models.University, error)
	Programs(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error)
	Requirements(ctx context.Context) ([]models.Requirement, error)
	Scholarships(ctx context.Context) ([]models.Scholarship, error)
	Ping(ctx context.Context) error
}

// CatalogServiceConfig tunes snapshot refreshes.
type CatalogServiceConfig struct {
	Source     string
	RefreshTTL time.Duration
}

// CatalogService keeps an in-memory snapshot of the catalog and reloads it when it expires.
type CatalogService struct {
	store   CatalogStore
	metrics *MetricsService
	logger  *zap.Logger
	cfg     CatalogServiceConfig
	now     func() time.Time

	mu       sync.RWMutex
	snapshot *models.Catalog
	expired  bool
	group    singleflight.Group
}

// NewCatalogService constructs a CatalogService. A non-positive RefreshTTL keeps the first snapshot until invalidated.
func NewCatalogService(store CatalogStore, metrics *MetricsService, logger *zap.Logger, cfg CatalogServiceConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Snapshot returns the current catalog, loading it when missing or stale.
// A failed reload keeps serving the previous snapshot.
func (s *CatalogService) Snapshot(ctx context.Context) (*models.Catalog, error) {
	s.mu.RLock()
	current, expired := s.snapshot, s.expired
	s.mu.RUnlock()

	if current != nil && !expired && !s.stale(current) {
		return current, nil
	}

	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		if current != nil {
			s.logger.Warn("catalog reload failed, serving previous snapshot", zap.Error(err))
			return current, nil
		}
		return nil, err
	}
	return v.(*models.Catalog), nil
}

// Invalidate forces the next Snapshot call to reload.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.expired = true
	s.mu.Unlock()
}

// Universities lists catalog universities.
func (s *CatalogService) Universities(ctx context.Context) ([]models.University, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Universities, nil
}

// Programs pages through catalog programmes matching filter.
func (s *CatalogService) Programs(ctx context.Context, filter models.ProgramFilter, page, pageSize int) ([]models.Program, *models.Pagination, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	matches := models.FilterPrograms(catalog.Programs, filter)
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(matches)}

	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []models.Program{}, pagination, nil
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], pagination, nil
}

// Scholarships lists scholarships, optionally restricted to one university.
// Scholarships without a university apply everywhere and are always included.
func (s *CatalogService) Scholarships(ctx context.Context, universityID string) ([]models.Scholarship, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(universityID))
	if want == "" {
		return catalog.Scholarships, nil
	}
	out := make([]models.Scholarship, 0, len(catalog.Scholarships))
	for _, sch := range catalog.Scholarships {
		if sch.UniversityID == "" || strings.ToLower(sch.UniversityID) == want {
			out = append(out, sch)
		}
	}
	return out, nil
}

// Ready reports whether the backing store is reachable.
func (s *CatalogService) Ready(ctx context.Context) error {
	if s.store == nil {
		return appErrors.ErrCatalogUnavailable
	}
	return s.store.Ping(ctx)
}

func (s *CatalogService) stale(c *models.Catalog) bool {
	if s.cfg.RefreshTTL <= 0 {
		return false
	}
	return s.now().Sub(c.LoadedAt) >= s.cfg.RefreshTTL
}

func (s *CatalogService) load(ctx context.Context) (*models.Catalog, error) {
	if s.store == nil {
		return nil, appErrors.ErrCatalogUnavailable
	}
	catalog := &models.Catalog{Source: s.cfg.Source}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.timed("universities", func() (err error) {
			catalog.Universities, err = s.store.Universities(gctx)
			return err
		})
	})
	g.Go(func() error {
		return s.timed("programs", func() (err error) {
			catalog.Programs, err = s.store.Programs(gctx, models.ProgramFilter{})
			return err
		})
	})
	g.Go(func() error {
		return s.timed("requirements", func() (err error) {
			catalog.Requirements, err = s.store.Requirements(gctx)
			return err
		})
	})
	g.Go(func() error {
		return s.timed("scholarships", func() (err error) {
			catalog.Scholarships, err = s.store.Scholarships(gctx)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, req := range catalog.Requirements {
		if len(req.Malformed) > 0 {
			s.logger.Warn("requirement fields ignored",
				zap.String("requirement_id", req.ID),
				zap.String("program_id", req.ProgramID),
				zap.Strings("fields", req.Malformed),
			)
		}
	}
	models.AttachUniversityNames(catalog.Programs, catalog.Universities)
	catalog.LoadedAt = s.now().UTC()

	s.mu.Lock()
	s.snapshot = catalog
	s.expired = false
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		zap.String("source", catalog.Source),
		zap.Int("universities", len(catalog.Universities)),
		zap.Int("programs", len(catalog.Programs)),
		zap.Int("requirements", len(catalog.Requirements)),
		zap.Int("scholarships", len(catalog.Scholarships)),
	)
	return catalog, nil
}

func (s *CatalogService) timed(collection string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveCatalogQuery(collection, time.Since(start))
	return err
}
