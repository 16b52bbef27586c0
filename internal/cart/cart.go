// Package cart reconciles cart edits against a user's cart lines.
//
// Everything here is free of I/O except the product lookup callback; callers
// persist the returned lines themselves.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/models"
)

// MaxQuantity is the largest quantity a cart line can hold; cart_items.quantity is a 32-bit INT
const MaxQuantity = math.MaxInt32

// ProductLookup fetches a product by id, returning an error wrapping models.ErrNotFound if absent
type ProductLookup func(ctx context.Context, productID string) (*models.Product, error)

// Apply merges a (product, quantity, dates) request into lines.
//
// An existing line has delta added to its quantity and is removed when the
// result drops to zero or below. A new line takes delta as its initial
// quantity. Deltas or resulting quantities above MaxQuantity fail with a
// quantity validation error. The input slice is never modified, so a failed edit leaves the
// caller's cart untouched.
func Apply(ctx context.Context, lines []models.CartLine, productID string, delta int, dates models.DateList, lookup ProductLookup) ([]models.CartLine, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, models.ErrMalformedID
	}
	productID = id.String()

	if delta > MaxQuantity || delta < -MaxQuantity {
		return nil, errQuantityTooLarge()
	}

	result := make([]models.CartLine, len(lines))
	copy(result, lines)

	if idx := IndexOf(result, productID); idx > -1 {
		if delta > 0 && result[idx].Quantity > MaxQuantity-delta {
			return nil, errQuantityTooLarge()
		}
		quantity := result[idx].Quantity + delta
		if quantity <= 0 {
			return append(result[:idx], result[idx+1:]...), nil
		}
		result[idx].Quantity = quantity
		result[idx].Dates = cloneDates(dates)
		return result, nil
	}

	product, err := lookup(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if !product.Sell {
		return nil, models.ErrProductDelisted
	}
	if delta < 1 {
		return nil, models.NewValidationError("quantity", "cart item quantity is invalid")
	}

	return append(result, models.CartLine{
		ProductID: productID,
		Quantity:  delta,
		Dates:     cloneDates(dates),
	}), nil
}

// IndexOf returns the position of the line for productID, or -1
func IndexOf(lines []models.CartLine, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Total is the sum of all line quantities
func Total(lines []models.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

func errQuantityTooLarge() error {
	return models.NewValidationError("quantity", fmt.Sprintf("cart item quantity cannot exceed %d", MaxQuantity))
}

func cloneDates(dates models.DateList) models.DateList {
	if dates == nil {
		return models.DateList{}
	}
	out := make(models.DateList, len(dates))
	copy(out, dates)
	return out
}
