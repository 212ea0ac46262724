package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	PhotoURL    string    `gorm:"size:255" json:"photoUrl"`
	Language    string    `gorm:"size:10;default:'en'" json:"language"`
	Disabled    bool      `gorm:"default:false" json:"disabled"`
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile holds the medical background injected into advisory prompts.
// All fields are optional free text supplied by the user; they are never
// required for the chat to work.
type UserProfile struct {
	BaseModel
	UserID         uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Age            int    `gorm:"default:0" json:"age"`
	Gender         string `gorm:"size:20" json:"gender"`
	MedicalHistory string `gorm:"type:text" json:"medicalHistory"`
	Allergies      string `gorm:"type:text" json:"allergies"`
	Medications    string `gorm:"type:text" json:"medications"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
