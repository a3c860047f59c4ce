package piefile

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a chart document from YAML.
func ParseYAML(data []byte) (*Document, error) {
	var fd fileDoc
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, err
	}
	return fd.document()
}

// ToYAML converts a chart document to YAML.
func ToYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newFileDoc(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
