package record

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes one stored JSON document into a Record.
// Unknown keys are ignored; type mismatches and a missing signature fail.
func DecodeJSON(data []byte) (Record, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("decode document: %w", err)
	}
	r, err := doc.Record()
	if err != nil {
		return Record{}, fmt.Errorf("decode document: %w", err)
	}
	return r, nil
}

// EncodeJSON encodes a Record for storage. Absent fields become null.
func EncodeJSON(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
