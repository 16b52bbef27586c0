package models

import (
	"encoding/json"
	"fmt"
)

// CartLine is one product+quantity+dates entry of a user's cart
type CartLine struct {
	ProductID string   `json:"product"`
	Quantity  int      `json:"quantity"`
	Dates     DateList `json:"date"`
}

// CartItem is a cart or order line with its product resolved
type CartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Dates    DateList `json:"date"`
}

// DateList accepts either a single date string or an array of date strings
type DateList []string

// UnmarshalJSON decodes a string, an array of strings or null
func (d *DateList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*d = DateList{}
			return nil
		}
		*d = DateList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("date must be a string or an array of strings")
	}
	*d = many
	return nil
}

// EditCartRequest represents a cart edit request
type EditCartRequest struct {
	Product  string   `json:"product"`
	Quantity int      `json:"quantity"`
	Date     DateList `json:"date"`
}

// EditCartResult is returned by a successful cart edit
type EditCartResult struct {
	CartQuantity int      `json:"cartQuantity"`
	Date         DateList `json:"date"`
}
