package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	query := `
		SELECT id, name, price, description, image, sell, created_at
		FROM products
		WHERE id = ?
		LIMIT 1
	`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Image,
		&product.Sell,
		&product.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get product by id", zap.Error(err), zap.String("productId", productID))
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

// List retrieves products ordered by creation time; onSaleOnly hides delisted products
func (r *productRepository) List(ctx context.Context, onSaleOnly bool) ([]models.Product, error) {
	query := `
		SELECT id, name, price, description, image, sell, created_at
		FROM products
	`
	if onSaleOnly {
		query += ` WHERE sell = TRUE`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query products", zap.Error(err))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Sell, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, price, description, image, sell)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, product.ID, product.Name, product.Price, product.Description, product.Image, product.Sell); err != nil {
		r.logger.Error("failed to create product", zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update applies the non-nil fields of req to a product
func (r *productRepository) Update(ctx context.Context, productID string, req *models.UpdateProductRequest) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *req.Price)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, *req.Image)
	}
	if req.Sell != nil {
		sets = append(sets, "sell = ?")
		args = append(args, *req.Sell)
	}

	if len(sets) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, productID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update product", zap.Error(err), zap.String("productId", productID))
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}

	return nil
}
