package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/eligibility"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
	"github.com/noah-isme/admissions-eligibility-api/pkg/export"
)

type eligibilityChecker interface {
	Check(ctx context.Context, institution string, req dto.EligibilityRequest) (*dto.EligibilityResponse, bool, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
	MaxRows int
}

// ExportService renders eligibility results as downloadable documents.
type ExportService struct {
	checker   eligibilityChecker
	renderers map[string]export.Renderer
	validator *validator.Validate
	cfg       ExportConfig
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Renderers are keyed by their file extension.
func NewExportService(checker eligibilityChecker, cfg ExportConfig, logger *zap.Logger, renderers ...export.Renderer) *ExportService {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byExt := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byExt[r.Extension()] = r
	}
	return &ExportService{checker: checker, renderers: byExt, validator: validator.New(), cfg: cfg, logger: logger}
}

// Export runs an eligibility check and renders its results in the requested format.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrExportsDisabled
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.StructCtx(ctx, req); err != nil {
		if req.Format != "" && req.Format != "csv" && req.Format != "pdf" {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format "+strconv.Quote(req.Format))
		}
		return nil, appErrors.Validation(err, "invalid export request")
	}
	renderer, ok := s.renderers[req.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format "+strconv.Quote(req.Format))
	}

	resp, _, err := s.checker.Check(ctx, req.Institution, req.EligibilityRequest)
	if err != nil {
		return nil, err
	}

	dataset := s.dataset(resp)
	payload, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render export", zap.String("format", req.Format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("eligibility-%s-%s.%s", resp.Institution, uuid.NewString()[:8], renderer.Extension())
	s.logger.Info("eligibility export rendered",
		zap.String("file", filename),
		zap.Int("rows", len(dataset.Rows)),
		zap.Int("bytes", len(payload)),
	)
	return &dto.ExportFile{Filename: filename, ContentType: renderer.ContentType(), Data: payload, Rows: len(dataset.Rows)}, nil
}

var exportHeaders = []string{"Rank", "Programme", "University", "Status", "Score", "Combination", "Details", "Recommendations"}

func (s *ExportService) dataset(resp *dto.EligibilityResponse) export.Dataset {
	results := resp.Results
	notes := []string{
		fmt.Sprintf("Institution: %s", resp.Institution),
		fmt.Sprintf("Generated: %s", resp.GeneratedAt.Format(time.RFC1123)),
		fmt.Sprintf("Eligible: %d, multiple tracks: %d, borderline: %d, not eligible: %d",
			resp.Summary.Eligible, resp.Summary.MultipleTracks, resp.Summary.Borderline, resp.Summary.NotEligible),
	}
	if resp.BestCombination != nil {
		notes = append(notes, "Best combination: "+resp.BestCombination.Describe())
	}
	if resp.Shortfall != "" {
		notes = append(notes, "Shortfall: "+resp.Shortfall)
	}
	if len(results) > s.cfg.MaxRows {
		notes = append(notes, fmt.Sprintf("Showing the top %d of %d programmes", s.cfg.MaxRows, len(results)))
		results = results[:s.cfg.MaxRows]
	}

	rows := make([]map[string]string, 0, len(results))
	for i, r := range results {
		details := make([]string, 0, len(r.Details))
		for _, d := range r.Details {
			details = append(details, eligibility.PlainDetail(d))
		}
		rows = append(rows, map[string]string{
			"Rank":            strconv.Itoa(i + 1),
			"Programme":       r.ProgramName,
			"University":      r.UniversityName,
			"Status":          statusLabel(string(r.Status)),
			"Score":           strconv.Itoa(r.MatchScore),
			"Combination":     r.UsedCombination,
			"Details":         strings.Join(details, "\n"),
			"Recommendations": strings.Join(r.Recommendations, "\n"),
		})
	}

	return export.Dataset{
		Title:   "Programme eligibility",
		Notes:   notes,
		Headers: exportHeaders,
		Rows:    rows,
		Widths:  []float64{0.5, 2, 1.5, 1, 0.6, 2, 3.5, 2},
	}
}

func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
