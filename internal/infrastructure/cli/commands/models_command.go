package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List and select generation models",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsUseCommand(container),
	)

	return modelsCmd
}

func newModelsListCommand(container *app.Container) *cobra.Command {
	var available, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container, available, asJSON)
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "Only show models whose provider has an API key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print models as JSON")
	return cmd
}

func newModelsUseCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Set the default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := container.ConfigLoader.Load(ctx)
			if err != nil {
				return err
			}
			if err := cfg.SetDefaultModel(args[0]); err != nil {
				return err
			}
			if err := helpers.SaveConfigWithValidation(ctx, container, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default model set to %s\n", args[0])
			return nil
		},
	}
}

func listModels(ctx context.Context, out io.Writer, container *app.Container, available, asJSON bool) error {
	var (
		models []domain.ModelDefinition
		err    error
	)
	if available {
		models, err = container.Models.AvailableModels(ctx)
	} else {
		models, err = container.Models.Models(ctx)
	}
	if err != nil {
		return err
	}
	if asJSON {
		return helpers.RenderJSON(out, models)
	}

	defaultID, _ := container.Models.ResolveModelID(ctx, "")
	for _, model := range models {
		marker := " "
		if model.ID == defaultID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-28s %-12s %s\n", marker, model.ID, model.Provider, model.Name)
	}
	return nil
}
