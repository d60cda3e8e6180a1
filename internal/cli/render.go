package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synacktraa/buildantic/openapi"
)

// render writes v to w as indented JSON or YAML. YAML output round-trips
// through JSON first so json.Number and struct values marshal as plain data.
func render(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case "json", "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		var plain any
		if err := json.Unmarshal(data, &plain); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// loadRegistry loads an OpenAPI document from a local path or an http(s) URL.
func loadRegistry(location string, includeHeaders, includeCookies bool) (*openapi.Registry, error) {
	var opts []openapi.Option
	if includeHeaders {
		opts = append(opts, openapi.WithHeaders())
	}
	if includeCookies {
		opts = append(opts, openapi.WithCookies())
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		slog.Debug("loading document from URL", "url", location)
		return openapi.LoadURL(location, opts...)
	}
	slog.Debug("loading document from file", "path", location)
	return openapi.LoadFile(location, opts...)
}
