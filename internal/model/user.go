package model

import (
	"time"
)

// User 同时承担 profile 的角色，Tinta 为当前余额
// swagger:model User
type User struct {
	BaseModel
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	FullName    string    `gorm:"size:100" json:"fullName"`
	Username    *string   `gorm:"size:50;uniqueIndex" json:"username"`
	Institution string    `gorm:"size:150" json:"institution"`
	AvatarURL   string    `gorm:"size:255" json:"avatarUrl"`
	Tinta       int       `gorm:"default:0;not null;index" json:"tinta"`
	LastLogin   time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
