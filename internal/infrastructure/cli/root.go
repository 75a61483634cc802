package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
	EnvFiles   []string
}

// NewRootCmd wires the cobra root command. The container is built once the
// flags are parsed, so --config and --verbose take effect.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "prompty",
		Short: "prompty - image prompt generator",
		Long: "prompty turns category selections into detailed image-generation prompts " +
			"using OpenAI, Anthropic, Hugging Face, Novita or OpenRouter models.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsContainer(cmd) {
				return nil
			}
			built, err := app.BuildContainer(cmd.Context(), app.Options{
				Verbose:    opts.Verbose,
				ConfigPath: opts.ConfigPath,
				EnvFiles:   opts.EnvFiles,
				LogWriter:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.prompty/config.yaml)")

	root.AddCommand(
		commands.NewGenerateCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewKeysCommand(container),
		commands.NewModelsCommand(container),
		commands.NewCategoriesCommand(container),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

func needsContainer(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[commands.AnnotationNoContainer] != "" {
			return false
		}
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}
