// Package cli implements the buildantic command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/synacktraa/buildantic/internal/log"
)

const (
	shortDesc = "Generate and validate LLM function-calling schemas from OpenAPI documents."
	longDesc  = `buildantic turns OpenAPI v3 operations into JSON Schemas for LLM function
calling (OpenAI, Anthropic, Gemini) and validates tool-call payloads against
them, producing ready-to-send request descriptions.`
)

// NewRootCmd builds the root command with logging flags and all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "buildantic",
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Set the log format (text, logfmt, json)")

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		flags := cc.Flags()

		var merr error

		logLevel, err := flags.GetString("log-level")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		logFormat, err := flags.GetString("log-format")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		if merr != nil {
			return fmt.Errorf("invalid argument: %w", merr)
		}

		h, err := log.CreateHandler(os.Stderr, logLevel, logFormat)
		if err != nil {
			return fmt.Errorf("failed creating log handler: %w", err)
		}
		slog.SetDefault(slog.New(h))

		return nil
	}

	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}
