package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account able to book appointments. A user created through OTP
// login may have only a phone number.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	Email          *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password       string    `gorm:"type:text" json:"-"`
	Phone          *string   `gorm:"type:varchar(32);uniqueIndex" json:"phone,omitempty"`
	Age            *int      `json:"age,omitempty"`
	Gender         string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	MedicalHistory string    `gorm:"type:text" json:"medical_history,omitempty"`
	Role           string    `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailAddress returns the email or "" when the account has none
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// PhoneNumber returns the phone or "" when the account has none
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
