package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/ai"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/helpers"
)

// otherSection labels categories the prompt template does not send.
const otherSection = "Other"

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand(container *app.Container) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse the category catalog used by --set",
	}
	categoriesCmd.AddCommand(newCategoriesListCommand(container))
	return categoriesCmd
}

func newCategoriesListCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List categories, or the options of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := container.Catalog.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if asJSON {
					return helpers.RenderJSON(out, catalog.Categories)
				}
				renderCategoriesBySection(out, catalog)
				return nil
			}

			category, ok := catalog.Find(args[0])
			if !ok {
				return fmt.Errorf(ErrUnknownCategory, args[0])
			}
			if asJSON {
				return helpers.RenderJSON(out, category)
			}
			section, ok := ai.SectionFor(category.ID)
			if !ok {
				section = otherSection
			}
			fmt.Fprintf(out, "%s (%s) [%s]\n", category.Name, category.ID, section)
			for _, option := range category.Options {
				fmt.Fprintf(out, "  %-24s %s\n", option.Value, option.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// renderCategoriesBySection groups categories under the prompt section they
// feed, in template order. Categories outside every section come last.
func renderCategoriesBySection(out io.Writer, catalog domain.Catalog) {
	row := func(category domain.Category) {
		fmt.Fprintf(out, "  %-20s %-24s %d options\n", category.ID, category.Name, len(category.Options))
	}

	for _, section := range ai.Sections() {
		var found []domain.Category
		for _, key := range section.Keys {
			if category, ok := catalog.Find(key); ok {
				found = append(found, category)
			}
		}
		if len(found) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s\n", section.Name)
		for _, category := range found {
			row(category)
		}
	}

	var other []domain.Category
	for _, category := range catalog.Categories {
		if _, ok := ai.SectionFor(category.ID); !ok {
			other = append(other, category)
		}
	}
	if len(other) == 0 {
		return
	}
	fmt.Fprintf(out, "%s\n", otherSection)
	for _, category := range other {
		row(category)
	}
}
