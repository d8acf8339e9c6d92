package model

import (
	"time"
)

type UserRole string

const (
	Admin  UserRole = "admin"
	HR     UserRole = "hr"
	Viewer UserRole = "viewer"
)

// User is a staff account on the dashboard side. Respondents taking an
// assessment through an invitation never get a user row; their identity
// lives in the invite token and the finalization profile.
// swagger:model User
type User struct {
	BaseModel
	FirstName  string    `gorm:"size:100;not null" json:"firstName"`
	LastName   string    `gorm:"size:100;not null" json:"lastName"`
	Email      string    `gorm:"size:100;unique;not null" json:"email"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Role       UserRole  `gorm:"type:enum('admin','hr','viewer');default:'viewer'" json:"role"`
	Department string    `gorm:"size:100" json:"department"`
	Disabled   bool      `gorm:"default:false" json:"disabled"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
