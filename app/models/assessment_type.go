package models

import "time"

// AssessmentType identifies an exam sitting, e.g. Opener, Mid-Term, End-Term.
type AssessmentType struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	Name      string     `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Weight    *float64   `json:"weight,omitempty" gorm:"type:decimal(6,4)" validate:"omitempty,gt=0,lte=1"`
	Position  int        `json:"position" gorm:"default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}
