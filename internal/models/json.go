package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// JSON type for handling JSON columns in MySQL
type JSON json.RawMessage

// Scan implements the sql.Scanner interface for JSON
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON: %T", value)
	}

	if !json.Valid(bytes) {
		return fmt.Errorf("invalid JSON data")
	}

	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	*j = JSON(cp)
	return nil
}

// Value implements the driver.Valuer interface for JSON
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// MarshalJSON implements json.Marshaler
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = JSON(append([]byte(nil), data...))
	return nil
}

// NewJSON marshals v into a JSON column value
func NewJSON(v interface{}) (JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return JSON(b), nil
}

// StringList is a list of strings stored as a JSON array column
type StringList []string

// Scan implements the sql.Scanner interface for StringList
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}

	var items []string
	if err := json.Unmarshal(bytes, &items); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	*s = items
	return nil
}

// Value implements the driver.Valuer interface for StringList
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// StringSet is a StringList with duplicates removed and a stable order.
// Processing logs store their data types this way.
func StringSet(items []string) StringList {
	seen := make(map[string]struct{}, len(items))
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
