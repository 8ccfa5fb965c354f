package tools

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Time wraps time.Time so GORM columns and JSON agree on formats: mysql
// DATETIME on the wire, RFC3339 in payloads, null for the zero value.
type Time time.Time

func (t *Time) Scan(value interface{}) error {
	if value == nil {
		*t = Time{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = Time(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return nil
	}
}

func (t *Time) parse(s string) error {
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Time(parsed)
	return nil
}

func (t Time) Value() (driver.Value, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return nil, nil
	}
	return tt, nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.Format(time.RFC3339))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	return t.parse(s)
}

func (t Time) ToTime() time.Time { return time.Time(t) }

func FromTime(tt time.Time) Time { return Time(tt) }
