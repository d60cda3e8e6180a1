package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/synacktraa/buildantic"
	"github.com/synacktraa/buildantic/openapi"
)

// NewSchemaCmd builds the schema subcommand: export operation schemas from an
// OpenAPI document in the chosen function-calling dialect.
func NewSchemaCmd() *cobra.Command {
	var (
		dialect string
		format  string
		id      string
		headers bool
		cookies bool
	)

	cmd := &cobra.Command{
		Use:   "schema <document>",
		Short: "Export operation schemas from an OpenAPI document",
		Long: `Load an OpenAPI v3 document (file path or http(s) URL) and print its
operation schemas, either as plain JSON Schema or in a function-calling
dialect (openai, anthropic, gemini).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(args[0], headers, cookies)
			if err != nil {
				return err
			}
			slog.Info("document loaded", "operations", len(reg.IDs()))

			export, err := dialectExport(dialect)
			if err != nil {
				return err
			}

			if id != "" {
				desc, ok := reg.Get(id)
				if !ok {
					return fmt.Errorf("%q: %w", id, buildantic.ErrNotFound)
				}
				return render(cmd.OutOrStdout(), export(desc), format)
			}

			out := make([]map[string]any, 0, len(reg.IDs()))
			for _, d := range reg.Descriptors() {
				out = append(out, export(d))
			}
			return render(cmd.OutOrStdout(), out, format)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "standard", "Schema dialect (standard, openai, anthropic, gemini)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&id, "id", "", "Export only the operation with this ID")
	cmd.Flags().BoolVar(&headers, "headers", false, "Include header parameters in schemas")
	cmd.Flags().BoolVar(&cookies, "cookies", false, "Include cookie parameters in schemas")

	return cmd
}

func dialectExport(dialect string) (func(*openapi.OperationDescriptor) map[string]any, error) {
	switch strings.ToLower(dialect) {
	case "standard", "":
		return func(d *openapi.OperationDescriptor) map[string]any { return d.Schema() }, nil
	case "openai":
		return func(d *openapi.OperationDescriptor) map[string]any { return buildantic.OpenAISchema(d) }, nil
	case "anthropic":
		return func(d *openapi.OperationDescriptor) map[string]any { return buildantic.AnthropicSchema(d) }, nil
	case "gemini":
		return func(d *openapi.OperationDescriptor) map[string]any { return buildantic.GeminiSchema(d) }, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", dialect)
}
