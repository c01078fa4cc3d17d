package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/app"
	"github.com/doeshing/chatcmd-go/internal/domain"
)

// NewKeyCommand creates the key command managing provider credentials.
func NewKeyCommand(container *app.Container) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys",
	}

	keyCmd.AddCommand(
		newKeySetCommand(container),
		newKeyShowCommand(container),
		newKeyValidateCommand(container),
		newKeyDeleteCommand(container),
	)

	return keyCmd
}

func newKeySetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store an API key for a provider",
		Long:  "Store an API key for a provider. When the key is omitted it is read from stdin, which keeps it out of shell history.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := parseFamily(args[0])
			if err != nil {
				return err
			}

			var secret string
			if len(args) == 2 {
				secret = args[1]
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Enter API key for %s: ", family)
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read key from stdin: %w", err)
				}
				secret = strings.TrimSpace(line)
			}

			if err := container.Credentials.Set(family, secret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored key for %s.\n", family)
			return nil
		},
	}
}

func newKeyShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <provider>",
		Short: "Show the stored key in masked form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := parseFamily(args[0])
			if err != nil {
				return err
			}
			masked, err := container.Credentials.Masked(family)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", family, masked)
			return nil
		},
	}
}

func newKeyValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <provider>",
		Short: "Check the stored key against the live provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := parseFamily(args[0])
			if err != nil {
				return err
			}
			if err := container.LookupService.ValidateCredential(cmd.Context(), family); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key for %s is valid.\n", family)
			return nil
		},
	}
}

func newKeyDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove the stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := parseFamily(args[0])
			if err != nil {
				return err
			}
			if err := container.Credentials.Delete(family); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed key for %s.\n", family)
			return nil
		},
	}
}

func parseFamily(name string) (domain.ProviderFamily, error) {
	family := domain.ProviderFamily(strings.ToLower(strings.TrimSpace(name)))
	if !family.Valid() {
		names := make([]string, 0, len(domain.Families()))
		for _, f := range domain.Families() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown provider %q (choose from: %s)", name, strings.Join(names, ", "))
	}
	return family, nil
}
