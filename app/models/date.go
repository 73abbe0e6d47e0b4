package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CustomDate handles date-only values (YYYY-MM-DD) in JSON and the database.
type CustomDate struct {
	time.Time
}

// UnmarshalJSON parses dates in YYYY-MM-DD format, tolerating null/empty.
func (cd *CustomDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == "" || s == `""` {
		cd.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	cd.Time = t
	return nil
}

// MarshalJSON formats dates in YYYY-MM-DD format.
func (cd CustomDate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, cd.Time.Format("2006-01-02"))), nil
}

// Scan implements the Scanner interface for database reading.
func (cd *CustomDate) Scan(value interface{}) error {
	if value == nil {
		cd.Time = time.Time{}
		return nil
	}
	if t, ok := value.(time.Time); ok {
		cd.Time = t
		return nil
	}
	return fmt.Errorf("cannot scan %T into CustomDate", value)
}

// Value implements the Valuer interface for database writing.
func (cd CustomDate) Value() (driver.Value, error) {
	return cd.Time, nil
}
