package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/prompty-go/internal/services"
)

type generateOptions struct {
	model   string
	sets    []string
	extra   string
	prefix  string
	from    string
	count   int
	timeout time.Duration
	asJSON  bool
	copy    bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(container *app.Container) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate image prompts from category selections",
		Example: `  prompty generate --set subject=landscape,castle --set style=fantasy
  prompty generate -m claude-3-5-haiku-20241022 -n 3 --extra "misty morning"
  prompty generate --from selections.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, container, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model id (default from config)")
	cmd.Flags().StringArrayVarP(&opts.sets, "set", "s", nil, "Category selection as key=value[,value]; repeatable")
	cmd.Flags().StringVarP(&opts.extra, "extra", "e", "", "Extra details appended to the instruction")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Text prepended to every generated prompt")
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "Read selections from a JSON or YAML file")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of variations to generate")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the whole batch after this duration")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the batch report as JSON")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy generated prompts to the clipboard")

	return cmd
}

func runGenerate(cmd *cobra.Command, container *app.Container, opts generateOptions) error {
	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	req, err := buildGenerateRequest(cmd, container, opts)
	if err != nil {
		return err
	}

	spinner := helpers.NewSpinner(cmd.ErrOrStderr(), "Generating...")
	spinner.Start()
	report, err := container.Generation.Generate(ctx, req)
	spinner.Stop()
	logCacheStats(container)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		if renderErr := helpers.RenderJSON(out, report); renderErr != nil {
			return renderErr
		}
	}
	if err != nil {
		return errors.New(helpers.ErrorMessage(err))
	}
	if !opts.asJSON {
		helpers.RenderReport(out, report)
	}

	succeeded := report.Succeeded()
	if len(succeeded) == 0 {
		return errors.New(helpers.ErrorMessage(domain.ErrNoResults))
	}
	if opts.copy {
		copyPrompts(cmd, succeeded)
	}
	return nil
}

func logCacheStats(container *app.Container) {
	if container.Adapters == nil || container.Logger == nil {
		return
	}
	for provider, stats := range container.Adapters.CacheStats() {
		container.Logger.Debug("response cache",
			"provider", provider, "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)
	}
}

func buildGenerateRequest(cmd *cobra.Command, container *app.Container, opts generateOptions) (services.GenerateRequest, error) {
	ctx := cmd.Context()
	var cfg domain.PromptConfig
	if opts.from != "" {
		loaded, err := helpers.LoadPromptConfig(opts.from)
		if err != nil {
			return services.GenerateRequest{}, err
		}
		cfg = loaded
	}
	if err := helpers.ParseSelections(&cfg, opts.sets); err != nil {
		return services.GenerateRequest{}, err
	}
	if cmd.Flags().Changed("extra") {
		cfg.ExtraDetails = opts.extra
	}
	if cmd.Flags().Changed("prefix") {
		cfg.PrefixText = opts.prefix
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}

	model, err := container.Models.ResolveModelID(ctx, cfg.Model)
	if err != nil {
		return services.GenerateRequest{}, err
	}
	cfg.Model = model

	count := opts.count
	if !cmd.Flags().Changed("count") {
		count = container.Config.GetDefaultCount()
	}

	catalog, err := container.Catalog.Catalog(ctx)
	if err != nil {
		return services.GenerateRequest{}, err
	}
	return services.GenerateRequest{Config: cfg, Catalog: catalog, Count: count}, nil
}

func copyPrompts(cmd *cobra.Command, results []domain.GenerationResult) {
	prompts := make([]string, 0, len(results))
	for _, r := range results {
		prompts = append(prompts, r.Prompt)
	}
	clipboard := helpers.NewClipboard()
	if err := clipboard.Copy(cmd.Context(), strings.Join(prompts, "\n\n")); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), MsgCopiedToClipboard)
}
