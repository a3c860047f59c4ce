package piefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	if format == FormatYAML {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// Encode encodes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	if format == FormatYAML {
		return ToYAML(doc)
	}
	data, err := ToJSON(doc, true)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Load reads a chart document, choosing the codec by extension.
func Load(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes a chart document, choosing the codec by extension.
func Save(path string, doc *Document) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
