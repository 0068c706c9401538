package model

import "strings"

// AdminUsername 保留用户名，注册时禁止使用（不区分大小写）
const AdminUsername = "admin"

// swagger:model User
type User struct {
	BaseModel
	Username     string `gorm:"size:100;unique;not null" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Username, AdminUsername)
}
