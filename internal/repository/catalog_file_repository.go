package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
	appErrors "github.com/noah-isme/admissions-eligibility-api/pkg/errors"
)

// Catalog collection base names. Each is read from <dir>/<name>.json, .yaml or .yml.
const (
	CollectionUniversities = "universities"
	CollectionPrograms     = "programs"
	CollectionRequirements = "requirements"
	CollectionScholarships = "scholarships"
)

var catalogExtensions = []string{".json", ".yaml", ".yml"}

// FileCatalogRepository reads the programme catalog from JSON or YAML files in one directory.
type FileCatalogRepository struct {
	dir string
}

// NewFileCatalogRepository constructs a FileCatalogRepository rooted at dir.
func NewFileCatalogRepository(dir string) *FileCatalogRepository {
	return &FileCatalogRepository{dir: dir}
}

// Dir returns the catalog directory.
func (r *FileCatalogRepository) Dir() string {
	return r.dir
}

// Universities lists every university in the catalog.
func (r *FileCatalogRepository) Universities(ctx context.Context) ([]models.University, error) {
	var out []models.University
	if err := r.read(ctx, CollectionUniversities, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Programs lists programmes, with university names filled from the universities file.
func (r *FileCatalogRepository) Programs(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	var out []models.Program
	if err := r.read(ctx, CollectionPrograms, true, &out); err != nil {
		return nil, err
	}
	universities, err := r.Universities(ctx)
	if err != nil {
		return nil, err
	}
	models.AttachUniversityNames(out, universities)
	return models.FilterPrograms(out, filter), nil
}

// Requirements lists every requirement record.
func (r *FileCatalogRepository) Requirements(ctx context.Context) ([]models.Requirement, error) {
	var out []models.Requirement
	if err := r.read(ctx, CollectionRequirements, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scholarships lists scholarships. The scholarships file is optional.
func (r *FileCatalogRepository) Scholarships(ctx context.Context) ([]models.Scholarship, error) {
	var out []models.Scholarship
	if err := r.read(ctx, CollectionScholarships, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks that the catalog directory is readable.
func (r *FileCatalogRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(r.dir)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, appErrors.ErrCatalogUnavailable.Message)
	}
	if !info.IsDir() {
		return appErrors.Clone(appErrors.ErrCatalogUnavailable, fmt.Sprintf("catalog path %s is not a directory", r.dir))
	}
	return nil
}

func (r *FileCatalogRepository) read(ctx context.Context, name string, required bool, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := r.locate(name)
	if !ok {
		if !required {
			return nil
		}
		return appErrors.Clone(appErrors.ErrCatalogUnavailable, fmt.Sprintf("catalog file %s not found in %s", name, r.dir))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "read catalog file "+filepath.Base(path))
	}

	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(raw, dest)
	} else {
		err = yaml.Unmarshal(raw, dest)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "decode catalog file "+filepath.Base(path))
	}
	return nil
}

func (r *FileCatalogRepository) locate(name string) (string, bool) {
	for _, ext := range catalogExtensions {
		path := filepath.Join(r.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		} else if !errors.Is(err, os.ErrNotExist) {
			return path, true
		}
	}
	return "", false
}
