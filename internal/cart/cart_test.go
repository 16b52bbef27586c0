package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	productX = "6a1c4f0e-2b7d-4c55-9a0e-1f2d3c4b5a69"
	productY = "0b9d2c3e-4f5a-4b6c-8d7e-9f0a1b2c3d4e"
)

// lookupFrom builds a ProductLookup over a fixed product set and counts calls
func lookupFrom(products map[string]*models.Product, calls *int) ProductLookup {
	return func(ctx context.Context, productID string) (*models.Product, error) {
		*calls++
		if p, ok := products[productID]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
}

func TestApply(t *testing.T) {
	products := map[string]*models.Product{
		productX: {ID: productX, Sell: true},
		productY: {ID: productY, Sell: false},
	}

	tests := []struct {
		name          string
		lines         []models.CartLine
		productID     string
		delta         int
		dates         models.DateList
		expectedLines []models.CartLine
		expectedError error
		expectLookup  bool
	}{
		{
			name:      "insert into empty cart",
			lines:     []models.CartLine{},
			productID: productX,
			delta:     2,
			dates:     models.DateList{"2024-01-01"},
			expectedLines: []models.CartLine{
				{ProductID: productX, Quantity: 2, Dates: models.DateList{"2024-01-01"}},
			},
			expectLookup: true,
		},
		{
			name:          "existing line driven to zero is removed",
			lines:         []models.CartLine{{ProductID: productX, Quantity: 2}},
			productID:     productX,
			delta:         -2,
			dates:         models.DateList{"2024-01-02"},
			expectedLines: []models.CartLine{},
		},
		{
			name:          "existing line driven below zero is removed",
			lines:         []models.CartLine{{ProductID: productX, Quantity: 1}, {ProductID: productY, Quantity: 3}},
			productID:     productX,
			delta:         -5,
			expectedLines: []models.CartLine{{ProductID: productY, Quantity: 3}},
		},
		{
			name:      "existing line updated and dates replaced",
			lines:     []models.CartLine{{ProductID: productX, Quantity: 2, Dates: models.DateList{"2024-01-01"}}},
			productID: productX,
			delta:     3,
			dates:     models.DateList{"2024-02-01"},
			expectedLines: []models.CartLine{
				{ProductID: productX, Quantity: 5, Dates: models.DateList{"2024-02-01"}},
			},
		},
		{
			name:          "existing delisted line can still be edited",
			lines:         []models.CartLine{{ProductID: productY, Quantity: 2}},
			productID:     productY,
			delta:         -1,
			expectedLines: []models.CartLine{{ProductID: productY, Quantity: 1, Dates: models.DateList{}}},
		},
		{
			name:          "upper case id matches stored line",
			lines:         []models.CartLine{{ProductID: productX, Quantity: 1}},
			productID:     "6A1C4F0E-2B7D-4C55-9A0E-1F2D3C4B5A69",
			delta:         1,
			expectedLines: []models.CartLine{{ProductID: productX, Quantity: 2, Dates: models.DateList{}}},
		},
		{
			name:          "malformed id",
			lines:         []models.CartLine{},
			productID:     "not-an-id",
			delta:         1,
			expectedError: models.ErrMalformedID,
		},
		{
			name:          "product not found",
			lines:         []models.CartLine{},
			productID:     "11111111-2222-3333-4444-555555555555",
			delta:         1,
			expectedError: models.ErrProductNotFound,
			expectLookup:  true,
		},
		{
			name:          "new delisted product",
			lines:         []models.CartLine{{ProductID: productX, Quantity: 1}},
			productID:     productY,
			delta:         1,
			expectedError: models.ErrProductDelisted,
			expectLookup:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			before := slices.Clone(tt.lines)

			result, err := Apply(context.Background(), tt.lines, tt.productID, tt.delta, tt.dates, lookupFrom(products, &calls))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedLines, result)
			}
			assert.Equal(t, before, tt.lines, "input cart must not be mutated")
			assert.Equal(t, tt.expectLookup, calls > 0)
		})
	}
}

func TestApply_NonPositiveInitialQuantity(t *testing.T) {
	calls := 0
	products := map[string]*models.Product{productX: {ID: productX, Sell: true}}

	result, err := Apply(context.Background(), nil, productX, 0, nil, lookupFrom(products, &calls))

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "quantity", validationErr.Field)
	assert.Nil(t, result)
}

func TestApply_LookupFailure(t *testing.T) {
	lookup := func(ctx context.Context, productID string) (*models.Product, error) {
		return nil, errors.New("connection refused")
	}

	_, err := Apply(context.Background(), nil, productX, 1, nil, lookup)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrProductNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

// For every delta an existing line either disappears or holds old+delta.
func TestApply_QuantityProperty(t *testing.T) {
	noLookup := func(ctx context.Context, productID string) (*models.Product, error) {
		t.Fatal("lookup must not be called for an existing line")
		return nil, nil
	}

	for old := 1; old <= 5; old++ {
		for delta := -7; delta <= 7; delta++ {
			lines := []models.CartLine{{ProductID: productX, Quantity: old}}

			result, err := Apply(context.Background(), lines, productX, delta, nil, noLookup)
			require.NoError(t, err)

			idx := IndexOf(result, productX)
			if old+delta <= 0 {
				assert.Equal(t, -1, idx, "old=%d delta=%d", old, delta)
			} else {
				require.NotEqual(t, -1, idx)
				assert.Equal(t, old+delta, result[idx].Quantity)
			}
		}
	}
}

func TestApply_QuantityBounds(t *testing.T) {
	products := map[string]*models.Product{productX: {ID: productX, Sell: true}}

	tests := []struct {
		name  string
		lines []models.CartLine
		delta int
	}{
		{name: "huge delta on existing line", lines: []models.CartLine{{ProductID: productX, Quantity: 5}}, delta: math.MaxInt64},
		{name: "huge negative delta on existing line", lines: []models.CartLine{{ProductID: productX, Quantity: 5}}, delta: math.MinInt64},
		{name: "sum above cap", lines: []models.CartLine{{ProductID: productX, Quantity: 5}}, delta: MaxQuantity - 4},
		{name: "new line above cap", lines: nil, delta: MaxQuantity + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			before := slices.Clone(tt.lines)

			result, err := Apply(context.Background(), tt.lines, productX, tt.delta, nil, lookupFrom(products, &calls))

			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "quantity", validationErr.Field)
			assert.Nil(t, result)
			assert.Equal(t, before, tt.lines)
		})
	}

	t.Run("sum at cap", func(t *testing.T) {
		lines := []models.CartLine{{ProductID: productX, Quantity: 5}}

		result, err := Apply(context.Background(), lines, productX, MaxQuantity-5, nil, nil)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, MaxQuantity, result[0].Quantity)
	})

	t.Run("new line at cap", func(t *testing.T) {
		calls := 0

		result, err := Apply(context.Background(), nil, productX, MaxQuantity, nil, lookupFrom(products, &calls))

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, MaxQuantity, result[0].Quantity)
	})
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 0, Total(nil))
	assert.Equal(t, 6, Total([]models.CartLine{{Quantity: 2}, {Quantity: 4}}))
}

func TestNormalizeDates(t *testing.T) {
	tests := []struct {
		name          string
		dates         models.DateList
		policy        DatePolicy
		expected      models.DateList
		expectedError bool
	}{
		{
			name:     "plain day kept",
			dates:    models.DateList{"2024-01-01"},
			policy:   DatePolicy{Mode: ModeFirst, UTCOffset: 8 * time.Hour},
			expected: models.DateList{"2024-01-01"},
		},
		{
			name:     "timestamp shifted into next day",
			dates:    models.DateList{"2024-01-01T18:30:00Z"},
			policy:   DatePolicy{Mode: ModeFirst, UTCOffset: 8 * time.Hour},
			expected: models.DateList{"2024-01-02"},
		},
		{
			name:     "first mode truncates",
			dates:    models.DateList{"2024-01-01", "2024-01-05"},
			policy:   DatePolicy{Mode: ModeFirst},
			expected: models.DateList{"2024-01-01"},
		},
		{
			name:     "all mode keeps every date",
			dates:    models.DateList{"2024-01-01", "2024-01-05"},
			policy:   DatePolicy{Mode: ModeAll},
			expected: models.DateList{"2024-01-01", "2024-01-05"},
		},
		{
			name:     "empty stays empty",
			dates:    nil,
			policy:   DatePolicy{Mode: ModeFirst},
			expected: models.DateList{},
		},
		{
			name:          "invalid date",
			dates:         models.DateList{"yesterday"},
			policy:        DatePolicy{Mode: ModeFirst},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeDates(tt.dates, tt.policy)

			if tt.expectedError {
				var validationErr *models.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeLines_Idempotent(t *testing.T) {
	policy := DatePolicy{Mode: ModeFirst, UTCOffset: 8 * time.Hour}
	lines := []models.CartLine{{ProductID: productX, Quantity: 1, Dates: models.DateList{"2024-03-01T20:00:00Z", "2024-03-09"}}}

	once, err := NormalizeLines(lines, policy)
	require.NoError(t, err)
	twice, err := NormalizeLines(once, policy)
	require.NoError(t, err)

	assert.Equal(t, models.DateList{"2024-03-02"}, once[0].Dates)
	assert.Equal(t, once, twice)
}
