// Package catalog loads the category catalog that maps configuration keys
// to display labels and selectable options.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/assets"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/pkg/filesystem"
	"github.com/doeshing/prompty-go/internal/ports"
)

// Loader reads the embedded catalog once, merging an optional override
// file over it. Override categories replace embedded ones with the same id;
// new ids are appended.
type Loader struct {
	overridePath string

	once    sync.Once
	catalog domain.Catalog
	err     error
}

func NewLoader(overridePath string) *Loader {
	return &Loader{overridePath: overridePath}
}

// Catalog implements ports.CatalogProvider.
func (l *Loader) Catalog(context.Context) (domain.Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = l.load()
	})
	return l.catalog, l.err
}

func (l *Loader) load() (domain.Catalog, error) {
	base, err := Parse(assets.DefaultCatalogYAML)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("embedded catalog: %w", err)
	}
	if l.overridePath == "" {
		return base, nil
	}

	path := filesystem.ExpandPath(l.overridePath)
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: read catalog %s: %v", domain.ErrConfiguration, path, err)
	}
	override, err := Parse(raw)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return Merge(base, override), nil
}

// Parse decodes a YAML catalog. Every category needs an id and a name, and
// ids must be unique.
func Parse(data []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: decode catalog: %v", domain.ErrConfiguration, err)
	}

	seen := make(map[string]bool, len(catalog.Categories))
	for i, category := range catalog.Categories {
		if category.ID == "" || category.Name == "" {
			return domain.Catalog{}, fmt.Errorf("%w: category %d needs an id and a name", domain.ErrConfiguration, i)
		}
		if seen[category.ID] {
			return domain.Catalog{}, fmt.Errorf("%w: duplicate category %q", domain.ErrConfiguration, category.ID)
		}
		seen[category.ID] = true
	}
	return catalog, nil
}

// Merge overlays override onto base without mutating either.
func Merge(base, override domain.Catalog) domain.Catalog {
	merged := domain.Catalog{Categories: append([]domain.Category(nil), base.Categories...)}
	index := make(map[string]int, len(merged.Categories))
	for i, category := range merged.Categories {
		index[category.ID] = i
	}
	for _, category := range override.Categories {
		if i, ok := index[category.ID]; ok {
			merged.Categories[i] = category
			continue
		}
		index[category.ID] = len(merged.Categories)
		merged.Categories = append(merged.Categories, category)
	}
	return merged
}

var _ ports.CatalogProvider = (*Loader)(nil)
