package models

import (
	"strconv"
	"time"
)

// Term is an academic term within a year, e.g. "Term 1" of 2026.
type Term struct {
	ID        string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	Name      string      `json:"name" gorm:"not null" validate:"required"`
	Year      int         `json:"year" gorm:"not null" validate:"required,gte=2000,lte=2100"`
	StartDate *CustomDate `json:"start_date,omitempty" gorm:"type:date"`
	EndDate   *CustomDate `json:"end_date,omitempty" gorm:"type:date"`
	IsCurrent bool        `json:"is_current" gorm:"default:false"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty" gorm:"index"`
}

// CheckDates rejects a term whose end date lands before its start date.
// Terms may carry no dates at all.
func (t *Term) CheckDates() error {
	if t.StartDate == nil || t.EndDate == nil {
		return nil
	}
	if t.EndDate.Time.Before(t.StartDate.Time) {
		return NewValidationError("invalid term dates",
			FieldError{Field: "end_date", Message: "must not be before start_date"})
	}
	return nil
}

// IsCurrentByDate reports whether now falls inside the term's dates.
// Terms without both dates rely on the IsCurrent flag alone.
func (t *Term) IsCurrentByDate(now time.Time) bool {
	if t.StartDate == nil || t.EndDate == nil {
		return t.IsCurrent
	}
	day := now.Truncate(24 * time.Hour)
	return !day.Before(t.StartDate.Time) && !day.After(t.EndDate.Time)
}

// Label renders "Term 1 2026" for dropdowns and report headers.
func (t *Term) Label() string {
	return t.Name + " " + strconv.Itoa(t.Year)
}
