package models

import (
	"fmt"
	"sort"
	"time"
)

// Grade represents a CBC performance band, e.g. E.E, M.E, A.E, B.E
type Grade struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Description string     `json:"description"`
	MinMarks    float64    `json:"min_marks" gorm:"not null;type:decimal(5,2)" validate:"gte=0,lte=100"`
	MaxMarks    float64    `json:"max_marks" gorm:"not null;type:decimal(5,2)" validate:"gte=0,lte=100"`
	Points      float64    `json:"points" gorm:"default:0;type:decimal(5,2)" validate:"gte=0"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// GradeFor picks the band whose [MinMarks, MaxMarks] range contains the
// percentage. Bands are checked from highest MinMarks down so overlapping
// edges resolve to the better band.
func GradeFor(grades []*Grade, percentage float64) *Grade {
	sorted := make([]*Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinMarks > sorted[j].MinMarks
	})
	for _, g := range sorted {
		if !g.IsActive {
			continue
		}
		if percentage >= g.MinMarks && percentage <= g.MaxMarks {
			return g
		}
	}
	return nil
}

// ValidateGradeBands flags ranges that are inverted or overlap each other.
func ValidateGradeBands(grades []*Grade) error {
	var fields []FieldError
	for _, g := range grades {
		if g.MinMarks > g.MaxMarks {
			fields = append(fields, FieldError{
				Field:   "min_marks",
				Message: fmt.Sprintf("band %q has min %.2f above max %.2f", g.Name, g.MinMarks, g.MaxMarks),
			})
		}
	}
	sorted := make([]*Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinMarks < sorted[j].MinMarks
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.MinMarks < prev.MaxMarks {
			fields = append(fields, FieldError{
				Field:   "min_marks",
				Message: fmt.Sprintf("band %q overlaps band %q", cur.Name, prev.Name),
			})
		}
	}
	if len(fields) > 0 {
		return NewValidationError("invalid grade bands", fields...)
	}
	return nil
}

// DefaultGrades returns the stock CBC bands used when a school has not
// configured its own.
func DefaultGrades() []*Grade {
	return []*Grade{
		{Name: "E.E", Description: "Exceeding Expectation", MinMarks: 75, MaxMarks: 100, Points: 4, IsActive: true},
		{Name: "M.E", Description: "Meeting Expectation", MinMarks: 50, MaxMarks: 74.99, Points: 3, IsActive: true},
		{Name: "A.E", Description: "Approaching Expectation", MinMarks: 30, MaxMarks: 49.99, Points: 2, IsActive: true},
		{Name: "B.E", Description: "Below Expectation", MinMarks: 0, MaxMarks: 29.99, Points: 1, IsActive: true},
	}
}
