package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// ProductRepository is the interface that wraps methods for products table data access
type ProductRepository interface {
	ProductReader
	// Method List retrieves products; "onSaleOnly" hides delisted products.
	List(ctx context.Context, onSaleOnly bool) ([]models.Product, error)
	// Method Create inserts a new product.
	Create(ctx context.Context, product *models.Product) error
	// Method Update applies the non-nil fields of "req" to product "productID".
	//
	// If product with such ID does not exist, models.ErrNotFound will be returned.
	Update(ctx context.Context, productID string, req *models.UpdateProductRequest) error
}

type productService struct {
	repo   ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo ProductRepository, logger *zap.Logger) *productService {
	return &productService{
		repo:   repo,
		logger: logger,
	}
}

// List returns products on sale, or every product when includeDelisted is set
func (s *productService) List(ctx context.Context, includeDelisted bool) ([]models.Product, error) {
	return s.repo.List(ctx, !includeDelisted)
}

// Get returns a single product
func (s *productService) Get(ctx context.Context, productID string) (*models.Product, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, models.ErrMalformedID
	}

	product, err := s.repo.GetByID(ctx, id.String())
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrProductNotFound
	}
	return product, err
}

// Create validates and stores a new product
func (s *productService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, models.NewValidationError("name", "product name is required")
	}
	if req.Price < 0 {
		return nil, models.NewValidationError("price", "product price cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Sell:        req.Sell,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("productId", product.ID))
	return s.repo.GetByID(ctx, product.ID)
}

// Update changes the given fields of a product and returns the stored result
func (s *productService) Update(ctx context.Context, productID string, req *models.UpdateProductRequest) (*models.Product, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, models.ErrMalformedID
	}
	productID = id.String()

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.NewValidationError("name", "product name is required")
		}
		req.Name = &name
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, models.NewValidationError("price", "product price cannot be negative")
	}
	if req.Name == nil && req.Price == nil && req.Description == nil && req.Image == nil && req.Sell == nil {
		return nil, models.NewValidationError("product", "no fields to update")
	}

	if err := s.repo.Update(ctx, productID, req); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}

	if req.Sell != nil && !*req.Sell {
		s.logger.Info("product delisted", zap.String("productId", productID))
	}
	return s.repo.GetByID(ctx, productID)
}
