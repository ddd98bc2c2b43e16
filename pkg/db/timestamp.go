// pkg/db/timestamp.go
package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timestampLayout is fixed-width so that values stored as TEXT in SQLite
// compare in chronological order. PostgreSQL parses it as timestamptz.
const timestampLayout = "2006-01-02 15:04:05.000000-07:00"

var scanLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// Timestamp is a UTC time that reads and writes the same way on every
// supported driver.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the microsecond precision kept by the stores.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC().Format(timestampLayout), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src interface{}) error {
	parsed, err := parseTimestamp(src)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// NullTimestamp is a Timestamp that may be NULL.
type NullTimestamp struct {
	Time  time.Time
	Valid bool
}

// NewNullTimestamp wraps t, treating nil as NULL.
func NewNullTimestamp(t *time.Time) NullTimestamp {
	if t == nil {
		return NullTimestamp{}
	}
	return NullTimestamp{Time: NewTimestamp(*t).Time, Valid: true}
}

// Ptr returns nil for NULL.
func (n NullTimestamp) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// Value implements driver.Valuer.
func (n NullTimestamp) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return Timestamp{Time: n.Time}.Value()
}

// Scan implements sql.Scanner.
func (n *NullTimestamp) Scan(src interface{}) error {
	if src == nil {
		n.Time, n.Valid = time.Time{}, false
		return nil
	}
	parsed, err := parseTimestamp(src)
	if err != nil {
		return err
	}
	n.Time, n.Valid = parsed, true
	return nil
}

func parseTimestamp(src interface{}) (time.Time, error) {
	var s string
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, fmt.Errorf("cannot scan %T into timestamp", src)
	}
	for _, layout := range scanLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}
