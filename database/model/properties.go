package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// Properties is a parcel's attribute bag, stored as a JSON column. Numbers
// decode as float64 so an edited Area reads back as a number.
type Properties map[string]any

func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Properties) Scan(val any) error {
	var data []byte
	switch v := val.(type) {
	case nil:
		*p = Properties{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan properties: unsupported type %T", val)
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("scan properties: %w", err)
	}
	*p = m
	return nil
}

func (Properties) GormDataType() string {
	return "json"
}
