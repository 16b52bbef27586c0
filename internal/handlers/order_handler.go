package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// OrderService is the interface that wraps order methods.
type OrderService interface {
	// Method PlaceOrder turns the user's cart into an order and empties the cart.
	//
	// Returns models.ErrEmptyCart or models.ErrDelistedProductInCart when the cart cannot be ordered.
	PlaceOrder(ctx context.Context, userID string, rooms []string) (*models.Order, error)
	// Method ListOwn returns the orders of one user, oldest first.
	ListOwn(ctx context.Context, userID string) ([]models.Order, error)
	// Method ListAll returns every order together with the owner's account, oldest first.
	ListAll(ctx context.Context) ([]models.Order, error)
}

// placeOrderRequest is the optional body of POST /orders
type placeOrderRequest struct {
	Rooms []string `json:"rooms"`
}

// OrderHandler handles order requests
type OrderHandler struct {
	BaseHandler
	service OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers order routes behind authMiddleware; listing all orders also needs adminMiddleware
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOwn)
		r.With(adminMiddleware).Get("/all", h.ListAll)
	})
}

// PlaceOrder handles POST /orders
// @Summary Place order
// @Description Snapshot the cart into a new order and empty the cart
// @Tags orders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body placeOrderRequest false "Rooms"
// @Success 200 {object} models.Response{result=models.Order}
// @Failure 400 {object} models.Response "Empty cart or delisted product in cart"
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), user.ID, req.Rooms)
	if err != nil {
		h.RespondServiceError(w, r, err, "place order")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", order)
}

// ListOwn handles GET /orders
// @Summary List own orders
// @Tags orders
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=[]models.Order}
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /orders [get]
func (h *OrderHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListOwn(r.Context(), user.ID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.RespondJSON(w, http.StatusOK, "", orders)
}

// ListAll handles GET /orders/all
// @Summary List all orders
// @Description Every order with the owner's account. Admin only.
// @Tags orders
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=[]models.Order}
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /orders/all [get]
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "list all orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.RespondJSON(w, http.StatusOK, "", orders)
}
