package piefile

import "encoding/json"

// ParseJSON parses a chart document from JSON.
func ParseJSON(data []byte) (*Document, error) {
	var fd fileDoc
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, err
	}
	return fd.document()
}

// ToJSON converts a chart document to JSON.
func ToJSON(doc *Document, pretty bool) ([]byte, error) {
	fd := newFileDoc(doc)
	if pretty {
		return json.MarshalIndent(fd, "", "  ")
	}
	return json.Marshal(fd)
}
