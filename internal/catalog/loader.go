package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/validation"
)

// Loader reads a catalog file. JSON catalogs are checked against the
// rewards schema before decoding; both formats then go through struct tag
// validation and Build.
type Loader struct {
	schemas  validation.SchemaValidator
	validate *validator.Validate
}

// NewLoader creates a Loader. A nil schema validator skips the JSON schema
// step.
func NewLoader(schemas validation.SchemaValidator) *Loader {
	return &Loader{
		schemas:  schemas,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads path and returns the built catalog.
func (l *Loader) Load(ctx context.Context, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
	case ".json":
		if l.schemas != nil {
			if err := l.schemas.ValidateBytes(data, RewardsSchemaPath); err != nil {
				return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
			}
		}
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %s", ErrMsgUnsupportedFormat, ext)
	}

	c, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogLoaded,
		"path", path,
		"version", c.Version,
		"pools", len(c.Pools),
		"wheels", len(c.Wheels))
	return c, nil
}

// Decode validates an already parsed File and builds it.
func (l *Loader) Decode(f File) (*Catalog, error) {
	if err := l.validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return Build(f)
}
