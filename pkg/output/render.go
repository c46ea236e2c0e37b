package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Render writes the page snapshot in the given format.
func Render(w io.Writer, data *Data, format Format) error {
	switch format {
	case FormatTable:
		return RenderTable(w, data)
	case FormatJSON:
		return renderJSON(w, data)
	case FormatYAML:
		return renderYAML(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// renderJSON keeps cell text such as "<none>" or "a&b" readable.
func renderJSON(w io.Writer, data *Data) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// renderYAML writes one document per call, so watch frames stream as a
// multi-document YAML file.
func renderYAML(w io.Writer, data *Data) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}
