package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/metrics"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is the interface that wraps methods for orders table data access
type OrderRepository interface {
	// Method CreateFromCart stores "order" with "lines" as its snapshot and empties the cart of the order owner.
	//
	// Both changes are applied together; on error neither is.
	CreateFromCart(ctx context.Context, order *models.Order, lines []models.CartLine) error
	// Method ListByUser retrieves the orders of a user with products resolved.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// Method ListAll retrieves every order with the owner account and products resolved.
	ListAll(ctx context.Context) ([]models.Order, error)
}

// CartSnapshotReader is the interface that wraps cart reads needed at checkout
type CartSnapshotReader interface {
	CartLineReader
	GetItems(ctx context.Context, userID string) ([]models.CartItem, error)
}

type orderService struct {
	orderRepo OrderRepository
	cartRepo  CartSnapshotReader
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository, cartRepo CartSnapshotReader, logger *zap.Logger) *orderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder turns the cart of user userID into an order and empties the cart.
//
// Fails with models.ErrEmptyCart when there is nothing to order and with
// models.ErrDelistedProductInCart when any product in the cart is no longer sold.
func (s *orderService) PlaceOrder(ctx context.Context, userID string, rooms []string) (*models.Order, error) {
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	for _, item := range items {
		if !item.Product.Sell {
			return nil, models.ErrDelistedProductInCart
		}
	}

	if rooms == nil {
		rooms = []string{}
	}
	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Cart:      items,
		Rooms:     rooms,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, lines); err != nil {
		s.logger.Error("failed to place order", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info("order placed", zap.String("orderId", order.ID), zap.String("userId", userID), zap.Int("lines", len(lines)))
	return order, nil
}

// ListOwn returns the orders of user userID
func (s *orderService) ListOwn(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns the orders of every user
func (s *orderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
