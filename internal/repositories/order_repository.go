package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// orderRepository implements OrderRepository
type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// CreateFromCart stores the order with lines as its snapshot and empties the owner's cart.
// Both happen in one transaction, so a returned nil means the order exists and the cart is empty.
func (r *orderRepository) CreateFromCart(ctx context.Context, order *models.Order, lines []models.CartLine) error {
	rooms := order.Rooms
	if rooms == nil {
		rooms = []string{}
	}
	roomsJSON, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("failed to encode rooms: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, user_id, rooms, created_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, order.ID, order.UserID, string(roomsJSON), order.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertLines(ctx, tx, `INSERT INTO order_items (order_id, position, product_id, quantity, dates) VALUES `, order.ID, lines); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, order.UserID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit order", zap.Error(err), zap.String("orderId", order.ID))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const orderSelect = `
	SELECT o.id, o.user_id, u.account, o.rooms, o.created_at,
		oi.quantity, oi.dates,
		p.id, p.name, p.price, p.description, p.image, p.sell, p.created_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN order_items oi ON oi.order_id = o.id
	JOIN products p ON p.id = oi.product_id
`

// ListByUser retrieves the orders of a user with products resolved, oldest first
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := orderSelect + ` WHERE o.user_id = ? ORDER BY o.created_at, o.id, oi.position`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query user orders", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListAll retrieves every order with the owner's account and products resolved, oldest first
func (r *orderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	query := orderSelect + ` ORDER BY o.created_at, o.id, oi.position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query all orders", zap.Error(err))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// scanOrders folds the joined order/item rows into orders; rows must be grouped by order id
func scanOrders(rows *sql.Rows) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	for rows.Next() {
		var (
			order models.Order
			rooms []byte
			dates []byte
		)
		item := models.CartItem{Product: &models.Product{}}
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Account,
			&rooms,
			&order.CreatedAt,
			&item.Quantity,
			&dates,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.Description,
			&item.Product.Image,
			&item.Product.Sell,
			&item.Product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		var err error
		if item.Dates, err = decodeDates(dates); err != nil {
			return nil, err
		}

		if n := len(orders); n > 0 && orders[n-1].ID == order.ID {
			orders[n-1].Cart = append(orders[n-1].Cart, item)
			continue
		}

		order.Rooms = []string{}
		if len(rooms) > 0 {
			if err := json.Unmarshal(rooms, &order.Rooms); err != nil {
				return nil, fmt.Errorf("failed to decode rooms: %w", err)
			}
		}
		order.Cart = []models.CartItem{item}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
