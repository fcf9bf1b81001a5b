package signals

import (
	"embed"
	"fmt"
	"os"

	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

const embeddedCatalog = "catalog/startups.yaml"

// LoadEntities reads the tracked-startup catalog. An empty path loads the
// embedded catalog.
func LoadEntities(path string) ([]startup.Entity, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = catalogFS.ReadFile(embeddedCatalog)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return ParseEntities(data)
}

// ParseEntities decodes and validates a YAML catalog
func ParseEntities(data []byte) ([]startup.Entity, error) {
	var entities []startup.Entity
	if err := yaml.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validateEntities(entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func validateEntities(entities []startup.Entity) error {
	if len(entities) == 0 {
		return fmt.Errorf("%w: no entities", startup.ErrInvalidCatalog)
	}

	seen := make(map[int]struct{}, len(entities))
	for _, e := range entities {
		if e.ID <= 0 {
			return fmt.Errorf("%w: entity %q has non-positive id %d", startup.ErrInvalidCatalog, e.Name, e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", startup.ErrInvalidCatalog, e.ID)
		}
		seen[e.ID] = struct{}{}

		if e.Name == "" {
			return fmt.Errorf("%w: entity %d has no name", startup.ErrInvalidCatalog, e.ID)
		}
		if !e.ActionTag.Valid() {
			return fmt.Errorf("%w: entity %d has action tag %q", startup.ErrInvalidCatalog, e.ID, e.ActionTag)
		}
		if e.IndiaMarketFit < startup.MinScore || e.IndiaMarketFit > startup.MaxScore {
			return fmt.Errorf("%w: entity %d india market fit %d out of range", startup.ErrInvalidCatalog, e.ID, e.IndiaMarketFit)
		}
		if e.EstimatedBuildCost < 0 {
			return fmt.Errorf("%w: entity %d has negative build cost", startup.ErrInvalidCatalog, e.ID)
		}
	}
	return nil
}
