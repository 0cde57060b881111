// Package json_util provides JSON helpers shared by the seed loader and exports.
package json_util

import (
	"errors"
)

// RawMessage holds undecoded JSON such as a GeoJSON geometry. An empty value
// marshals as null.
type RawMessage []byte

func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of the JSON data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("json_util.RawMessage: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

// IsNull reports whether the message is empty or the JSON literal null.
func (m RawMessage) IsNull() bool {
	return len(m) == 0 || string(m) == "null"
}
