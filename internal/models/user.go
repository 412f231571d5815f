package models

import "time"

// User - аккаунт пользователя реестра. user_id выбирается самим
// пользователем при регистрации (как логин).
type User struct {
	UserID    string     `gorm:"column:user_id;primaryKey;size:45" json:"user_id"`
	UserName  string     `gorm:"column:user_name;size:45;index" json:"user_name"`
	UserEmail string     `gorm:"column:user_email;size:100;uniqueIndex" json:"user_email"`
	UserPw    string     `gorm:"column:user_pw;size:255" json:"-"`
	Birthday  *time.Time `gorm:"column:birthday;type:date" json:"birthday"`
	IsAdmin   bool       `gorm:"column:is_admin;default:false" json:"is_admin"`
}

func (User) TableName() string { return "users" }
