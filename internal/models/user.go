package models

import "time"

// Role is the enumerated privilege level of an account
type Role int

// UserRole constants
const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

// User represents an account together with its in-progress cart
type User struct {
	ID           string     `json:"id"`
	Account      string     `json:"account"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize password hash
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Image        string     `json:"image"`
	Cart         []CartLine `json:"cart"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PublicProfile is the part of a user returned to the client
type PublicProfile struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Cart    int    `json:"cart"`
	Image   string `json:"image"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string `json:"token"`
	PublicProfile
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}
