package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// WeightEpsilon is the tolerance when checking that component weights sum to 1.0.
const WeightEpsilon = 0.01

// SubjectComponent is a named, weighted sub-part of a composite subject with
// its own maximum raw mark, e.g. Grammar (0.6 of English, marked out of 60).
type SubjectComponent struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	SubjectID  string     `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name       string     `json:"name" gorm:"not null" validate:"required"`
	Code       string     `json:"code" gorm:"not null" validate:"required"`
	Weight     float64    `json:"weight" gorm:"not null;type:decimal(6,4)" validate:"gt=0,lte=1"`
	MaxRawMark int        `json:"max_raw_mark" gorm:"not null" validate:"gt=0"`
	Position   int        `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" gorm:"index"`
	Subject    *Subject   `json:"subject,omitempty" gorm:"foreignKey:SubjectID;references:ID"`
}

// NewSubjectComponent builds a component and rejects bad configuration
// before it can reach the catalog.
func NewSubjectComponent(subjectID, name, code string, weight float64, maxRawMark, position int) (*SubjectComponent, error) {
	var fields []FieldError
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "required"})
	}
	if weight <= 0 || weight > 1 {
		fields = append(fields, FieldError{Field: "weight", Message: fmt.Sprintf("must be in (0, 1], got %v", weight)})
	}
	if maxRawMark <= 0 {
		fields = append(fields, FieldError{Field: "max_raw_mark", Message: fmt.Sprintf("must be positive, got %d", maxRawMark)})
	}
	if len(fields) > 0 {
		return nil, NewValidationError("invalid component configuration", fields...)
	}
	if code == "" {
		code = name
	}
	return &SubjectComponent{
		SubjectID:  subjectID,
		Name:       name,
		Code:       code,
		Weight:     weight,
		MaxRawMark: maxRawMark,
		Position:   position,
	}, nil
}

// WeightSum adds up the raw weights of the given components.
func WeightSum(components []*SubjectComponent) float64 {
	sum := 0.0
	for _, c := range components {
		sum += c.Weight
	}
	return sum
}

// ValidateWeights reports whether the components' weights sum to 1.0 within
// WeightEpsilon. An empty component list never validates.
func ValidateWeights(components []*SubjectComponent) bool {
	if len(components) == 0 {
		return false
	}
	return math.Abs(WeightSum(components)-1.0) <= WeightEpsilon
}

// NormalizeWeights divides each weight by the current sum so the set sums to
// 1.0. It returns a ConsistencyWarning when the input was off by more than
// WeightEpsilon; callers log the warning and proceed with the normalized set.
func NormalizeWeights(subject *Subject, components []*SubjectComponent) (*ConsistencyWarning, error) {
	if len(components) == 0 {
		return nil, NewInvalidOperationError("normalize weights", "subject has no components")
	}
	sum := WeightSum(components)
	if sum <= 0 {
		return nil, NewValidationError("component weights sum to zero",
			FieldError{Field: "weight", Message: "at least one component must carry positive weight"})
	}
	var warning *ConsistencyWarning
	if math.Abs(sum-1.0) > WeightEpsilon {
		warning = &ConsistencyWarning{WeightSum: sum}
		if subject != nil {
			warning.SubjectID = subject.ID
			warning.SubjectName = subject.Name
		}
	}
	for _, c := range components {
		c.Weight = c.Weight / sum
	}
	return warning, nil
}

// SortComponents orders components by declaration order (position, then name
// as a tiebreak for legacy rows sharing a position).
func SortComponents(components []*SubjectComponent) {
	sort.SliceStable(components, func(i, j int) bool {
		if components[i].Position != components[j].Position {
			return components[i].Position < components[j].Position
		}
		return components[i].Name < components[j].Name
	})
}
