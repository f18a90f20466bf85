package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleIntern Role = "intern"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleIntern
}

type User struct {
	ID             string    `gorm:"type:varchar(36);primarykey" bson:"_id" json:"-"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" bson:"password" json:"-"`
	Name           string    `gorm:"type:varchar(100);not null" bson:"name" json:"name"`
	Surname        string    `gorm:"type:varchar(100);not null" bson:"surname" json:"surname"`
	Phone          string    `gorm:"type:varchar(50)" bson:"phone" json:"phone"`
	School         string    `gorm:"type:varchar(255)" bson:"school" json:"school"`
	Department     string    `gorm:"type:varchar(255)" bson:"department" json:"department"`
	Gender         string    `gorm:"type:varchar(20)" bson:"gender" json:"gender"`
	Birthdate      string    `gorm:"type:varchar(20)" bson:"birthdate" json:"birthdate"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'intern';index" bson:"role" json:"role"`
	ProfilePicture string    `gorm:"type:varchar(255)" bson:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin is the access policy predicate for mutating task and project operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FullName joins name and surname.
func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
