package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/eligibility"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

// EligibilityCachePrefix namespaces cached eligibility responses.
const EligibilityCachePrefix = "eligibility"

// InstitutionAll evaluates every programme with the dispatcher of its own university.
const InstitutionAll = "all"

type catalogSnapshotter interface {
	Snapshot(ctx context.Context) (*models.Catalog, error)
}

// EligibilityServiceParams groups constructor dependencies.
type EligibilityServiceParams struct {
	Engine    *eligibility.Engine
	Catalog   catalogSnapshotter
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	CacheTTL  time.Duration
}

// EligibilityService evaluates student grades against the catalog.
type EligibilityService struct {
	engine    *eligibility.Engine
	catalog   catalogSnapshotter
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time
	group     singleflight.Group
}

// NewEligibilityService constructs an EligibilityService.
func NewEligibilityService(params EligibilityServiceParams) *EligibilityService {
	engine := params.Engine
	if engine == nil {
		engine = eligibility.NewEngine()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{
		engine:    engine,
		catalog:   params.Catalog,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cacheTTL:  params.CacheTTL,
		now:       time.Now,
	}
}

// Institutions describes the registered dispatchers, offline last.
func (s *EligibilityService) Institutions() []dto.InstitutionResponse {
	insts := s.engine.Institutions()
	offline, _ := s.engine.Institution(eligibility.CodeOffline)
	insts = append(insts, offline)

	out := make([]dto.InstitutionResponse, 0, len(insts))
	for _, inst := range insts {
		out = append(out, dto.InstitutionResponse{
			Code:             inst.Code,
			Name:             inst.Name,
			Aliases:          inst.Aliases,
			Borderline:       inst.Borderline.Enabled,
			BorderlineWindow: inst.Borderline.Points(),
			SupportsTracks:   inst.SupportsTracks,
			ProgramRules:     inst.RuleCount(),
		})
	}
	return out
}

// Combinations ranks every valid aggregate combination for grades.
func (s *EligibilityService) Combinations(ctx context.Context, grades models.StudentGrades) (*dto.CombinationsResponse, error) {
	if err := s.validator.StructCtx(ctx, grades); err != nil {
		return nil, appErrors.Validation(err, "invalid grades")
	}
	combos := eligibility.Combinations(grades)
	resp := &dto.CombinationsResponse{Combinations: combos, Count: len(combos)}
	if len(combos) == 0 {
		resp.Shortfall = eligibility.Shortfall(grades)
	}
	if resp.Combinations == nil {
		resp.Combinations = []eligibility.Combination{}
	}
	return resp, nil
}

// Check evaluates req against one institution, or every programme when institution is empty or "all".
// The boolean reports whether the response came from cache.
func (s *EligibilityService) Check(ctx context.Context, institution string, req dto.EligibilityRequest) (*dto.EligibilityResponse, bool, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, false, appErrors.Validation(err, "invalid grades")
	}

	label := InstitutionAll
	var inst *eligibility.Institution
	if institution != "" && institution != InstitutionAll {
		found, ok := s.engine.Institution(institution)
		if !ok {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "unknown institution "+strconv.Quote(institution))
		}
		inst = found
		label = found.Code
	}

	if s.catalog == nil {
		return nil, false, appErrors.ErrCatalogUnavailable
	}
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	key := CacheKey(EligibilityCachePrefix, req, label, strconv.FormatInt(catalog.LoadedAt.UnixNano(), 36))
	var cached dto.EligibilityResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		resp := s.evaluate(label, inst, req, catalog)
		s.cache.Set(ctx, key, resp, s.cacheTTL)
		return resp, nil
	})
	return v.(*dto.EligibilityResponse), false, nil
}

func (s *EligibilityService) evaluate(label string, inst *eligibility.Institution, req dto.EligibilityRequest, catalog *models.Catalog) *dto.EligibilityResponse {
	start := time.Now()
	programs := models.FilterPrograms(catalog.Programs, models.ProgramFilter{UniversityID: req.UniversityID})

	var results []models.EligibilityResult
	if inst == nil {
		results = s.engine.CheckOffline(req.StudentGrades, programs, catalog.Requirements)
	} else {
		results, _ = s.engine.Check(inst.Code, req.StudentGrades, programs, catalog.Requirements)
	}
	if results == nil {
		results = []models.EligibilityResult{}
	}
	duration := time.Since(start)
	s.metrics.ObserveEligibilityCheck(label, results, duration)

	resp := &dto.EligibilityResponse{
		Institution:     label,
		Results:         results,
		Summary:         summarize(results),
		CatalogLoadedAt: catalog.LoadedAt,
		GeneratedAt:     s.now().UTC(),
	}
	if combos := eligibility.Combinations(req.StudentGrades); len(combos) > 0 {
		resp.BestCombination = &combos[0]
	} else {
		resp.Shortfall = eligibility.Shortfall(req.StudentGrades)
	}

	s.logger.Debug("eligibility evaluated",
		zap.String("institution", label),
		zap.Int("programs", len(programs)),
		zap.Int("eligible", resp.Summary.Eligible+resp.Summary.MultipleTracks),
		zap.Duration("duration", duration),
	)
	return resp
}

func summarize(results []models.EligibilityResult) dto.EligibilitySummary {
	summary := dto.EligibilitySummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case models.StatusEligible:
			summary.Eligible++
		case models.StatusMultipleTracks:
			summary.MultipleTracks++
		case models.StatusBorderline:
			summary.Borderline++
		default:
			summary.NotEligible++
		}
	}
	return summary
}
