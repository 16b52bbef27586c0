package models

import "time"

// Session is one active bearer token of a user
type Session struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}
