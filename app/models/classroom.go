package models

import "time"

// Class is a stream within an education level, e.g. "Grade 4 East".
type Class struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	Name           string         `json:"name" gorm:"not null" validate:"required"`
	EducationLevel EducationLevel `json:"education_level" gorm:"not null" validate:"required"`
	Stream         *string        `json:"stream,omitempty"`
	TeacherID      *string        `json:"teacher_id,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time     `json:"deleted_at,omitempty" gorm:"index"`
	Teacher        *User          `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
	Students       []*Student     `json:"students,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}

// DisplayName returns the class name with its stream suffix when set.
func (c *Class) DisplayName() string {
	if c.Stream != nil && *c.Stream != "" {
		return c.Name + " " + *c.Stream
	}
	return c.Name
}
