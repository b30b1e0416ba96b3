package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// Favorite 收藏（电影 ID 对应目录中的 Film.ID）
type Favorite struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_film"`
	FilmID    int       `json:"film_id" db:"film_id" gorm:"uniqueIndex:idx_user_film"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Film      *Film     `json:"film,omitempty" gorm:"-"` // 查询时从目录填充
}
