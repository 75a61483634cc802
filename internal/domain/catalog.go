package domain

// CategoryOption is one selectable value of a category.
type CategoryOption struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Value       string `yaml:"value" json:"value"`
}

// Category is a catalog entry mapping a configuration key to its label.
type Category struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Options     []CategoryOption `yaml:"options,omitempty" json:"options,omitempty"`
}

// Catalog is the static category lookup table. It is never mutated once
// loaded.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Find returns the category registered under id.
func (c Catalog) Find(id string) (Category, bool) {
	for _, category := range c.Categories {
		if category.ID == id {
			return category, true
		}
	}
	return Category{}, false
}

// DisplayName returns the label for id, or "" when the category is unknown.
func (c Catalog) DisplayName(id string) string {
	category, ok := c.Find(id)
	if !ok {
		return ""
	}
	return category.Name
}

// IsEmpty reports whether the catalog holds no categories.
func (c Catalog) IsEmpty() bool {
	return len(c.Categories) == 0
}

// FindOption resolves an option id or value within a category.
func (c Category) FindOption(idOrValue string) (CategoryOption, bool) {
	for _, option := range c.Options {
		if option.ID == idOrValue || option.Value == idOrValue {
			return option, true
		}
	}
	return CategoryOption{}, false
}
