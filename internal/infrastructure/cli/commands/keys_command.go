package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/helpers"
)

// NewKeysCommand creates the keys command with all subcommands
func NewKeysCommand(container *app.Container) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}

	keysCmd.AddCommand(
		newKeysSetCommand(container),
		newKeysListCommand(container),
		newKeysDeleteCommand(container),
	)

	return keysCmd
}

func newKeysSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store an API key (read from stdin when omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				key = helpers.PromptForString(cmd.ErrOrStderr(), bufio.NewReader(cmd.InOrStdin()),
					fmt.Sprintf("Enter %s API key", provider.DisplayName()))
			}
			if strings.TrimSpace(key) == "" {
				return errors.New(ErrKeyRequired)
			}
			if err := container.Keys.Set(cmd.Context(), provider, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key.\n", provider.DisplayName())
			return nil
		},
	}
}

func newKeysListCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show which providers have a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := container.Keys.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return helpers.RenderJSON(out, statuses)
			}
			for _, s := range statuses {
				if !s.Configured {
					fmt.Fprintf(out, "%-12s not set\n", s.Provider)
					continue
				}
				fmt.Fprintf(out, "%-12s %s (%s)\n", s.Provider, s.Masked, s.Source)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print key status as JSON")
	return cmd
}

func newKeysDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			if err := container.Keys.Delete(cmd.Context(), provider); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s API key.\n", provider.DisplayName())
			return nil
		},
	}
}

func parseProvider(name string) (domain.ProviderID, error) {
	provider, ok := domain.ParseProviderID(name)
	if !ok {
		names := make([]string, 0, len(domain.Providers()))
		for _, p := range domain.Providers() {
			names = append(names, string(p))
		}
		return "", fmt.Errorf(ErrUnknownProvider, name, strings.Join(names, ", "))
	}
	return provider, nil
}
