package models

import "time"

// Order is an immutable snapshot of a cart taken at checkout
type Order struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	Account   string     `json:"account,omitempty"`
	Cart      []CartItem `json:"cart"`
	Rooms     []string   `json:"rooms"`
	CreatedAt time.Time  `json:"createdAt"`
}
