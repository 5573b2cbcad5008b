package models

import "time"

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Region        string    `json:"region"`
	Status        string    `json:"status"`
	IsAdmin       bool      `json:"is_admin"`
	FollowerCount int64     `json:"follower_count"`
	Points        float64   `json:"points"`
	Rank          int       `json:"rank"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Trackable сообщает, участвует ли пользователь в ротации регионов.
func (u *User) Trackable() bool {
	return u.Status == UserStatusActive && !u.IsAdmin && u.Region != ""
}
