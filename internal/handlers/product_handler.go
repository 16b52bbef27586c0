package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// ProductService is the interface that wraps catalogue methods.
type ProductService interface {
	// Method List returns products on sale, or every product when includeDelisted is set.
	List(ctx context.Context, includeDelisted bool) ([]models.Product, error)
	// Method Get returns one product.
	//
	// Returns models.ErrMalformedID for an id that is not a UUID and models.ErrProductNotFound when it does not exist.
	Get(ctx context.Context, productID string) (*models.Product, error)
	// Method Create validates and stores a new product.
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	// Method Update changes the fields present in req and returns the updated product.
	Update(ctx context.Context, productID string, req *models.UpdateProductRequest) (*models.Product, error)
}

// ProductHandler handles catalogue requests
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers product routes. Reads are public; writes and the full listing need adminMiddleware.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Get("/all", h.ListAll)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
		})
	})
}

// List handles GET /products
// @Summary List products on sale
// @Tags products
// @Produce json
// @Success 200 {object} models.Response{result=[]models.Product}
// @Failure 500 {object} models.Response
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAll handles GET /products/all
// @Summary List all products
// @Description Products on sale and delisted ones. Admin only.
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=[]models.Product}
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /products/all [get]
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, includeDelisted bool) {
	products, err := h.service.List(r.Context(), includeDelisted)
	if err != nil {
		h.RespondServiceError(w, r, err, "list products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	h.RespondJSON(w, http.StatusOK, "", products)
}

// Get handles GET /products/{id}
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{result=models.Product}
// @Failure 400 {object} models.Response "Malformed product id"
// @Failure 404 {object} models.Response "Product not found"
// @Failure 500 {object} models.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, r, err, "get product")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", product)
}

// Create handles POST /products
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{result=models.Product}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "create product")
		return
	}

	h.RespondJSON(w, http.StatusCreated, "", product)
}

// Update handles PATCH /products/{id}
// @Summary Update product
// @Description Change name, price, description, image or sell state. Setting sell to false delists the product.
// @Tags products
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response{result=models.Product}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "update product")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", product)
}
