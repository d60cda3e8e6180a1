// Package log builds slog handlers backed by charmbracelet/log for the CLI.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Supported log output formats.
const (
	TextFormat   = "text"
	LogfmtFormat = "logfmt"
	JSONFormat   = "json"
)

// CreateHandler creates a [slog.Handler] writing to w with the given level
// and format (text, logfmt, json).
func CreateHandler(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	level, err := charmlog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	var formatter charmlog.Formatter
	switch strings.ToLower(logFormat) {
	case TextFormat, "":
		formatter = charmlog.TextFormatter
	case LogfmtFormat:
		formatter = charmlog.LogfmtFormatter
	case JSONFormat:
		formatter = charmlog.JSONFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", logFormat)
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	}), nil
}
