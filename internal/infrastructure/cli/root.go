// Package cli wires the cobra command tree over the application container.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/app"
	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.LookupService.Clipboard = NewClipboard()

	lookupCmd := newLookupCommand(container)

	root := &cobra.Command{
		Use:   "chatcmd [description]",
		Short: "chatcmd - natural language to shell commands",
		Long:  "chatcmd turns a natural-language description into a single shell command using the AI provider of your choice.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			lookupCmd.SetArgs(args)
			return lookupCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(lookupCmd)
	root.AddCommand(commands.NewModelsCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewKeyCommand(container))
	root.AddCommand(commands.NewStatsCommand(container))
	root.AddCommand(commands.NewToolsCommand())
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newLookupCommand(container *app.Container) *cobra.Command {
	var (
		model  string
		noCopy bool
	)

	cmd := &cobra.Command{
		Use:           "lookup [description]",
		Short:         "Generate a shell command from a description",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID := model
			if modelID == "" {
				modelID = container.Config.Preferences.DefaultModel
			}
			noCopy := noCopy || container.Config.Preferences.NoCopy

			result, err := container.LookupService.Lookup(cmd.Context(), domain.LookupRequest{
				Prompt:  strings.Join(args, " "),
				ModelID: modelID,
				NoCopy:  noCopy,
			})
			if err != nil {
				return err
			}
			RenderResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (default from config)")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "Do not copy the command to the clipboard")

	return cmd
}
