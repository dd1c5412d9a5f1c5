package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

// Format is a document serialization format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name, accepting "yml" for YAML
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: json, yaml)", s)
	}
}

// ContentType returns the media type a document in this format is served with
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Marshal serializes the document. YAML is converted from the JSON form so
// both formats share the same field names.
func Marshal(doc *Document, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	switch format {
	case FormatJSON, "":
		return append(data, '\n'), nil
	case FormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert document to yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Write serializes the document to w
func Write(w io.Writer, doc *Document, format Format) error {
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
