package models

import "time"

// GuardianLink ties a parent user account to a student.
type GuardianLink struct {
	ID           string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"omitempty,uuid"`
	UserID       string           `json:"user_id" gorm:"index;not null;type:uuid" validate:"required,uuid"`
	StudentID    string           `json:"student_id" gorm:"index;not null;type:uuid" validate:"required,uuid"`
	Relationship RelationshipType `json:"relationship" gorm:"not null" validate:"required"`
	IsPrimary    bool             `json:"is_primary" gorm:"default:false"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	User         *User            `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Student      *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
