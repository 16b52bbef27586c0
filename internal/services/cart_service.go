package services

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/cart"
	"github.com/shopfront/backend/internal/metrics"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// CartRepository is the interface that wraps methods for cart_items table data access
type CartRepository interface {
	CartLineReader
	// Method GetItems retrieves the cart lines of a user with their products resolved.
	GetItems(ctx context.Context, userID string) ([]models.CartItem, error)
	// Method ReplaceLines overwrites the whole cart of a user.
	//
	// Either every line is stored or the previous cart is kept.
	ReplaceLines(ctx context.Context, userID string, lines []models.CartLine) error
}

// ProductReader is the interface that wraps product lookup by ID
type ProductReader interface {
	// Method GetByID retrieves a product by ID.
	//
	// If product with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, productID string) (*models.Product, error)
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductReader
	policy      cart.DatePolicy
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, productRepo ProductReader, policy cart.DatePolicy, logger *zap.Logger) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger,
	}
}

// Edit applies a cart edit of user userID and saves the resulting cart.
// It returns the new cart total together with the requested date.
func (s *cartService) Edit(ctx context.Context, userID string, req *models.EditCartRequest) (result *models.EditCartResult, err error) {
	defer func() {
		metrics.CartEditsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	updated, err := cart.Apply(ctx, lines, req.Product, req.Quantity, req.Date, s.productRepo.GetByID)
	if err != nil {
		return nil, err
	}

	normalized, err := cart.NormalizeLines(updated, s.policy)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.ReplaceLines(ctx, userID, normalized); err != nil {
		s.logger.Error("failed to save cart", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	date := req.Date
	if date == nil {
		date = models.DateList{}
	}

	return &models.EditCartResult{
		CartQuantity: cart.Total(normalized),
		Date:         date,
	}, nil
}

// Get returns the cart of user userID with products resolved
func (s *cartService) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}
