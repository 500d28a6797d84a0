package models

import (
	"time"

	"github.com/subtrack/subtrack/pkg/types"
)

type User struct {
	ID           string         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email        string         `gorm:"column:email;type:varchar(256);not null;uniqueIndex" json:"email"`
	Name         string         `gorm:"column:name;type:varchar(128)" json:"name"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	Role         types.UserRole `gorm:"column:role;type:varchar(16);not null;default:'user'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "app_user"
}
