package models

import (
	"time"
)

type User struct {
	UserID      int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname   string  `gorm:"column:user_fname" json:"user_fname"`
	UserLname   string  `gorm:"column:user_lname" json:"user_lname"`
	Email       string  `gorm:"column:email;unique" json:"email"`
	Password    string  `gorm:"column:password" json:"-"`
	RoleID      int     `gorm:"column:role_id" json:"role_id"`
	Designation *string `gorm:"column:designation" json:"designation,omitempty"`
	Company     *string `gorm:"column:company" json:"company,omitempty"`

	// PIN is the bcrypt hash of the review PIN; Signature is the stored
	// signature image (data URL) released by a successful PIN check.
	PIN       *string `gorm:"column:pin" json:"-"`
	Signature *string `gorm:"column:signature;type:longtext" json:"-"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// FullName joins first and last name for display and report fields.
func (u *User) FullName() string {
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Role IDs used by route guards and handlers.
const (
	RoleInspector  = 1
	RoleSupervisor = 2
	RoleAdmin      = 3
)

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}
