// Package output renders a table page as plain text, JSON or YAML for
// non-interactive commands.
package output

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects how a page snapshot is written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat accepts a format name case-insensitively. Empty means table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown output format %q: valid formats are table, json, yaml", s)
	}
	return f, nil
}

func (f Format) String() string {
	return string(f)
}
