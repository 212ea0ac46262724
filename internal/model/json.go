package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a raw JSON column. MySQL hands json columns back as []byte; gorm
// needs Valuer/Scanner to round-trip them.
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return errors.New("unsupported type for JSON column")
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// MustJSON marshals v, returning null JSON on failure. Used for analysis
// fields where a marshal error should degrade, not abort the upload.
func MustJSON(v interface{}) JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return JSON("null")
	}
	return JSON(b)
}
