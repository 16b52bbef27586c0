package models

import "time"

// Product is a purchasable item; Sell is false once the product is delisted
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Sell        bool      `json:"sell"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateProductRequest represents an admin request to create a product
type CreateProductRequest struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Sell        bool   `json:"sell"`
}

// UpdateProductRequest represents an admin request to update a product
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Price       *int    `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Sell        *bool   `json:"sell,omitempty"`
}
