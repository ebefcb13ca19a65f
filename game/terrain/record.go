package terrain

import (
	"encoding/json"
	"fmt"
)

// Record is the persisted form of a Map. Each terrain cell encodes as its
// one-character key.
type Record struct {
	Name     string            `json:"name"`
	Terrain  [][]TerrainType   `json:"terrain"`
	Metadata map[string]string `json:"metadata"`
}

// Record returns the persisted form of m.
func (m *Map) Record() Record {
	return Record{
		Name:     m.name,
		Terrain:  m.Rows(),
		Metadata: m.Metadata(),
	}
}

// FromRecord builds a Map from its persisted form.
func FromRecord(r Record) (*Map, error) {
	return New(r.Name, r.Terrain, r.Metadata)
}

// MarshalJSON encodes m as a Record.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

// UnmarshalJSON decodes a Record into m. Unknown terrain keys fail with
// ErrInvalidFormat.
func (m *Map) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decode terrain map: %w", err)
	}
	decoded, err := FromRecord(r)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}
