package models

import "time"

// Student is an enrolled learner's record.
type Student struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	AdmissionNo string          `json:"admission_no" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName   string          `json:"first_name" gorm:"not null" validate:"required"`
	LastName    string          `json:"last_name" gorm:"not null" validate:"required"`
	Gender      *Gender         `json:"gender,omitempty"`
	DateOfBirth *CustomDate     `json:"date_of_birth,omitempty" gorm:"type:date"`
	ClassID     *string         `json:"class_id,omitempty" gorm:"index;type:uuid" validate:"omitempty,uuid"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
	Class       *Class          `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
	Guardians   []*GuardianLink `json:"guardians,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// FullName joins first and last name for display.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
