package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewValidateCmd builds the validate subcommand: check a tool-call payload
// against an operation and print the request it describes.
func NewValidateCmd() *cobra.Command {
	var (
		format  string
		headers bool
		cookies bool
	)

	cmd := &cobra.Command{
		Use:   "validate <document> <operation-id> [payload-file]",
		Short: "Validate a payload against an operation and print the request",
		Long: `Load an OpenAPI v3 document, validate a JSON payload (from a file or
stdin) against the given operation, and print the request it describes:
method, encoded URL, and raw header, cookie, and body maps.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(args[0], headers, cookies)
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd, args)
			if err != nil {
				return err
			}

			req, err := reg.ValidateJSON(args[1], payload)
			if err != nil {
				return err
			}
			slog.Info("payload validated", "operation", args[1], "method", req.Method, "url", req.URL())

			out := map[string]any{
				"method": req.Method,
				"url":    req.URL(),
			}
			if req.Query != nil {
				out["query"] = req.Query
			}
			if req.Headers != nil {
				out["headers"] = req.Headers
			}
			if req.Cookies != nil {
				out["cookies"] = req.Cookies
			}
			if req.Body != nil {
				out["body"] = req.Body
			}
			return render(cmd.OutOrStdout(), out, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&headers, "headers", false, "Include header parameters in schemas")
	cmd.Flags().BoolVar(&cookies, "cookies", false, "Include cookie parameters in schemas")

	return cmd
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) < 3 || args[2] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read payload from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[2])
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
