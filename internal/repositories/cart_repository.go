package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// cartRepository implements CartRepository
type cartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB, logger *zap.Logger) *cartRepository {
	return &cartRepository{
		db:     db,
		logger: logger,
	}
}

// GetLines retrieves the cart lines of a user in insertion order
func (r *cartRepository) GetLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	query := `
		SELECT product_id, quantity, dates
		FROM cart_items
		WHERE user_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query cart lines", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	lines := make([]models.CartLine, 0)
	for rows.Next() {
		var line models.CartLine
		var dates []byte
		if err := rows.Scan(&line.ProductID, &line.Quantity, &dates); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if line.Dates, err = decodeDates(dates); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// GetItems retrieves the cart lines of a user with their products resolved
func (r *cartRepository) GetItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT c.quantity, c.dates,
			p.id, p.name, p.price, p.description, p.image, p.sell, p.created_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = ?
		ORDER BY c.position
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query cart items", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]models.CartItem, 0)
	for rows.Next() {
		item := models.CartItem{Product: &models.Product{}}
		var dates []byte
		if err := rows.Scan(
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
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if item.Dates, err = decodeDates(dates); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// ReplaceLines overwrites the whole cart of a user in a single transaction
func (r *cartRepository) ReplaceLines(ctx context.Context, userID string, lines []models.CartLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := insertLines(ctx, tx, `INSERT INTO cart_items (user_id, position, product_id, quantity, dates) VALUES `, userID, lines); err != nil {
		return fmt.Errorf("failed to insert cart lines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit cart", zap.Error(err), zap.String("userId", userID))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertLines bulk-inserts lines owned by ownerID, keeping their order in the position column
func insertLines(ctx context.Context, tx *sql.Tx, insert string, ownerID string, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	placeholders := make([]string, len(lines))
	args := make([]any, 0, len(lines)*5)
	for i, line := range lines {
		placeholders[i] = "(?, ?, ?, ?, ?)"

		dates, err := encodeDates(line.Dates)
		if err != nil {
			return err
		}
		args = append(args, ownerID, i, line.ProductID, line.Quantity, dates)
	}

	_, err := tx.ExecContext(ctx, insert+strings.Join(placeholders, ","), args...)
	return err
}

func encodeDates(dates models.DateList) (string, error) {
	if dates == nil {
		dates = models.DateList{}
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("failed to encode dates: %w", err)
	}
	return string(data), nil
}

func decodeDates(data []byte) (models.DateList, error) {
	dates := models.DateList{}
	if len(data) == 0 {
		return dates, nil
	}
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode dates: %w", err)
	}
	return dates, nil
}
