package models

import (
	"fmt"
	"math"
	"time"
)

// Mark is the single row holding a student's result for one subject in one
// term and assessment. For a simple subject it is written directly; for a
// composite subject it is the aggregate of the component marks attached to it.
type Mark struct {
	ID               string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	StudentID        string  `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SubjectID        string  `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID           string  `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AssessmentTypeID string  `json:"assessment_type_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	RawMark          float64 `json:"raw_mark" gorm:"type:decimal(7,2)"`
	MaxRawMark       int     `json:"max_raw_mark"`
	Percentage       float64 `json:"percentage" gorm:"type:decimal(5,2)"`
	// Aggregated is false while a composite upload is deferred: the numeric
	// columns are NULL in the database until every component has a mark.
	Aggregated     bool             `json:"aggregated" gorm:"-"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	Student        *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Subject        *Subject         `json:"subject,omitempty" gorm:"foreignKey:SubjectID;references:ID"`
	Term           *Term            `json:"term,omitempty" gorm:"foreignKey:TermID;references:ID"`
	AssessmentType *AssessmentType  `json:"assessment_type,omitempty" gorm:"foreignKey:AssessmentTypeID;references:ID"`
	ComponentMarks []*ComponentMark `json:"component_marks,omitempty" gorm:"foreignKey:MarkID;references:ID"`
}

// ComponentMark is one component's raw score inside a composite subject's
// aggregate Mark. MaxRawMark is copied from the component at write time so
// the stored row stays meaningful if the catalog is later re-configured.
type ComponentMark struct {
	ID          string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	MarkID      string            `json:"mark_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ComponentID string            `json:"component_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	RawMark     float64           `json:"raw_mark" gorm:"not null;type:decimal(7,2)" validate:"gte=0"`
	MaxRawMark  int               `json:"max_raw_mark" gorm:"not null" validate:"gt=0"`
	Percentage  float64           `json:"percentage" gorm:"not null;type:decimal(5,2)"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	Component   *SubjectComponent `json:"component,omitempty" gorm:"foreignKey:ComponentID;references:ID"`
}

// NewComponentMark validates the raw mark against the component's maximum and
// computes the stored percentage. raw = 0 and raw = max are both legal.
func NewComponentMark(component *SubjectComponent, raw float64) (*ComponentMark, error) {
	if component == nil {
		return nil, NewNotFoundError("component", "")
	}
	if err := CheckRawMark(raw, component.MaxRawMark); err != nil {
		return nil, err
	}
	return &ComponentMark{
		ComponentID: component.ID,
		RawMark:     raw,
		MaxRawMark:  component.MaxRawMark,
		Percentage:  Percent(raw, component.MaxRawMark),
		Component:   component,
	}, nil
}

// CheckRawMark enforces 0 <= raw <= max.
func CheckRawMark(raw float64, max int) error {
	if raw < 0 {
		return NewValidationError("raw mark cannot be negative",
			FieldError{Field: "raw_mark", Message: fmt.Sprintf("got %v", raw)})
	}
	if raw > float64(max) {
		return NewValidationError(fmt.Sprintf("raw mark exceeds maximum of %d", max),
			FieldError{Field: "raw_mark", Message: fmt.Sprintf("got %v, max %d", raw, max)})
	}
	return nil
}

// Percent converts a raw mark and its maximum into a percentage rounded to
// two decimal places.
func Percent(raw float64, max int) float64 {
	if max <= 0 {
		return 0
	}
	return Round2(raw / float64(max) * 100)
}

// Round2 rounds to two decimal places, the precision marks are stored at.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
