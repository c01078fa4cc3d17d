// Package commands holds the cobra subcommand constructors.
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/app"
	"github.com/doeshing/chatcmd-go/internal/domain"
)

// NewModelsCommand creates the models command with its subcommands.
func NewModelsCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.OutOrStdout(), container)
		},
	}

	cmd.AddCommand(newModelInfoCommand(container))
	return cmd
}

func newModelInfoCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Show details for one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showModelInfo(cmd.OutOrStdout(), container, args[0])
		},
	}
}

func listModels(out io.Writer, container *app.Container) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPROVIDER\tDESCRIPTION")
	for _, desc := range container.Registry.List() {
		name := desc.ModelID
		if name == container.Config.Preferences.DefaultModel {
			name += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, desc.Family, desc.Description)
	}
	return w.Flush()
}

func showModelInfo(out io.Writer, container *app.Container, modelID string) error {
	desc, err := container.Registry.Describe(modelID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Model:        %s\n", desc.DisplayName)
	fmt.Fprintf(out, "Identifier:   %s\n", desc.ModelID)
	if desc.WireID != desc.ModelID {
		fmt.Fprintf(out, "Wire name:    %s\n", desc.WireID)
	}
	fmt.Fprintf(out, "Provider:     %s\n", desc.Family)
	fmt.Fprintf(out, "Description:  %s\n", desc.Description)
	fmt.Fprintf(out, "Max tokens:   %d\n", desc.MaxOutputTokens)
	fmt.Fprintf(out, "Temperature:  %.1f\n", desc.Temperature)
	if desc.Family.RequiresCredential() {
		fmt.Fprintf(out, "Credential:   required (chatcmd key set %s)\n", desc.Family)
	} else {
		fmt.Fprintln(out, "Credential:   not required (local)")
	}
	if desc.Family == domain.FamilyOllama {
		fmt.Fprintln(out, "Note:         requires a running Ollama server")
	}
	return nil
}
