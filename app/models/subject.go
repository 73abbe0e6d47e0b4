package models

import "time"

// Subject is a catalog entry. A simple subject is marked directly out of
// MaxRawMark; a composite subject (English, Kiswahili) is split into weighted
// components and owns at least one SubjectComponent.
type Subject struct {
	ID             string              `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	Name           string              `json:"name" gorm:"not null" validate:"required"`
	Code           string              `json:"code" gorm:"not null" validate:"required"`
	EducationLevel EducationLevel      `json:"education_level" gorm:"not null;index" validate:"required"`
	IsComposite    bool                `json:"is_composite" gorm:"default:false"`
	MaxRawMark     int                 `json:"max_raw_mark" gorm:"not null;default:100" validate:"gt=0"`
	IsActive       bool                `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty" gorm:"index"`
	Components     []*SubjectComponent `json:"components,omitempty" gorm:"foreignKey:SubjectID;references:ID"`
}

// CheckComposite enforces the catalog invariant: a composite subject owns at
// least one component, a simple subject owns none.
func (s *Subject) CheckComposite() error {
	if s.IsComposite && len(s.Components) == 0 {
		return NewInvalidOperationError("subject "+s.Name, "composite subject must own at least one component")
	}
	if !s.IsComposite && len(s.Components) > 0 {
		return NewInvalidOperationError("subject "+s.Name, "simple subject cannot own components")
	}
	return nil
}
