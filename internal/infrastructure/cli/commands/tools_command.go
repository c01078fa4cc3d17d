package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/infrastructure/tools"
)

// NewToolsCommand creates the tools command bundling the offline utilities.
func NewToolsCommand() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Offline developer utilities",
	}

	toolsCmd.AddCommand(
		newPasswordCommand(),
		newUUIDCommand(),
		newBase64Command(),
		newUserAgentCommand(),
		newPortCommand(),
		newHTTPStatusCommand(),
	)

	return toolsCmd
}

func newPasswordCommand() *cobra.Command {
	var (
		length  int
		symbols bool
	)

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Generate a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := tools.GeneratePassword(length, symbols)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 16, "Password length")
	cmd.Flags().BoolVar(&symbols, "symbols", true, "Include punctuation")
	return cmd
}

func newUUIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uuid",
		Short: "Generate a random UUID",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), tools.NewUUID())
		},
	}
}

func newBase64Command() *cobra.Command {
	base64Cmd := &cobra.Command{
		Use:   "base64",
		Short: "Encode or decode base64",
	}

	base64Cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <text>",
			Short: "Encode text as base64",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), tools.EncodeBase64(args[0]))
			},
		},
		&cobra.Command{
			Use:   "decode <text>",
			Short: "Decode base64 to text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				decoded, err := tools.DecodeBase64(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), decoded)
				return nil
			},
		},
	)

	return base64Cmd
}

func newUserAgentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "user-agent",
		Short: "Print a random browser user agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := tools.RandomUserAgent()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), agent)
			return nil
		},
	}
}

func newPortCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "port <number>",
		Short: "Describe a well-known port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid port %q", args[0])
			}
			description, ok := tools.LookupPort(port)
			if !ok {
				return fmt.Errorf("port %d is not in the well-known table", port)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", port, description)
			return nil
		},
	}
}

func newHTTPStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "http-status <code>",
		Short: "Describe an HTTP status code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid status code %q", args[0])
			}
			reason, ok := tools.LookupHTTPStatus(code)
			if !ok {
				return fmt.Errorf("status code %d is not in the table", code)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", code, reason)
			return nil
		},
	}
}
