package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"not null;default:'user'"`
}

// AllModels lists every table the service migrates.
func AllModels() []interface{} {
	return []interface{}{&User{}, &Template{}, &TemplateVersion{}, &Prompt{}}
}
