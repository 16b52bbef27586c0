package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopfront/backend/internal/middleware"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps account and session methods.
type AuthService interface {
	// Method Register validates the request and creates a regular user account.
	//
	// Returns a *models.ValidationError naming the first failing field,
	// or models.ErrDuplicateAccount when the account or email is already taken.
	Register(ctx context.Context, req *models.RegisterRequest) error
	// Method Login checks the credentials and opens a new session.
	//
	// Returns models.ErrInvalidAccount or models.ErrInvalidPassword on bad credentials.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	// Method Refresh replaces oldToken with a freshly signed token in the same session.
	Refresh(ctx context.Context, userID, oldToken string) (string, error)
	// Method Logout closes the session owning token. Closing an unknown session is not an error.
	Logout(ctx context.Context, token string) error
	// Method Profile returns the public part of user, including the cart total.
	Profile(ctx context.Context, user *models.User) (*models.PublicProfile, error)
}

// CartService is the interface that wraps cart methods.
type CartService interface {
	// Method Edit applies a quantity change to one product of the user's cart.
	//
	// Returns the new cart total and the dates echoed from the request.
	Edit(ctx context.Context, userID string, req *models.EditCartRequest) (*models.EditCartResult, error)
	// Method Get returns the user's cart with products resolved.
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
}

// ImageService is the interface that wraps the profile image upload.
type ImageService interface {
	// Method UpdateProfileImage stores a jpeg or png image and records its URL on the user.
	UpdateProfileImage(ctx context.Context, userID string, file io.Reader, contentType string) (string, error)
}

// UserHandler handles account, session, cart and profile image requests
type UserHandler struct {
	BaseHandler
	authService  AuthService
	cartService  CartService
	imageService ImageService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authSvc AuthService, cartSvc CartService, imageSvc ImageService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		authService:  authSvc,
		cartService:  cartSvc,
		imageService: imageSvc,
	}
}

// RegisterRoutes registers user routes.
// authMiddleware guards regular routes; sessionMiddleware also lets expired sessions through
// and guards the extend and logout routes.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, sessionMiddleware func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware)
			r.Patch("/extend", h.Extend)
			r.Delete("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.Me)
			r.Get("/cart", h.GetCart)
			r.Patch("/cart", h.EditCart)
			r.Post("/image", h.UploadImage)
		})
	})
}

// Register handles POST /users
// @Summary Register account
// @Description Create a regular user account. The first failing field is reported in the message.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account data"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response "Validation error"
// @Failure 409 {object} models.Response "Account or email already registered"
// @Failure 500 {object} models.Response
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		h.RespondServiceError(w, r, err, "register user")
		return
	}

	h.RespondJSON(w, http.StatusOK, "registered", nil)
}

// Login handles POST /users/login
// @Summary Log in
// @Description Check credentials and open a session. The token is sent back as a bearer token on later calls.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response{result=models.LoginResult}
// @Failure 400 {object} models.Response "Unknown account or wrong password"
// @Failure 500 {object} models.Response
// @Router /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "log in")
		return
	}

	h.RespondJSON(w, http.StatusOK, "logged in", result)
}

// Extend handles PATCH /users/extend
// @Summary Refresh session
// @Description Replace the current token with a new one. Expired tokens are accepted.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=string}
// @Failure 401 {object} models.Response "Invalid session"
// @Failure 500 {object} models.Response
// @Router /users/extend [patch]
func (h *UserHandler) Extend(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	token, err := h.authService.Refresh(r.Context(), user.ID, middleware.GetToken(r.Context()))
	if err != nil {
		h.RespondServiceError(w, r, err, "refresh session")
		return
	}

	h.RespondJSON(w, http.StatusOK, "session extended", token)
}

// Logout handles DELETE /users/logout
// @Summary Log out
// @Description Close the current session. Expired tokens are accepted.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response
// @Failure 401 {object} models.Response "Invalid session"
// @Failure 500 {object} models.Response
// @Router /users/logout [delete]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), middleware.GetToken(r.Context())); err != nil {
		h.RespondServiceError(w, r, err, "log out")
		return
	}

	h.RespondJSON(w, http.StatusOK, "logged out", nil)
}

// Me handles GET /users/me
// @Summary Current profile
// @Description Profile of the authenticated user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=models.PublicProfile}
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.authService.Profile(r.Context(), user)
	if err != nil {
		h.RespondServiceError(w, r, err, "get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", profile)
}

// GetCart handles GET /users/cart
// @Summary Get cart
// @Description Cart lines of the authenticated user with products resolved
// @Tags cart
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response{result=[]models.CartItem}
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /users/cart [get]
func (h *UserHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.cartService.Get(r.Context(), user.ID)
	if err != nil {
		h.RespondServiceError(w, r, err, "get cart")
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	h.RespondJSON(w, http.StatusOK, "", items)
}

// EditCart handles PATCH /users/cart
// @Summary Edit cart
// @Description Add quantity to a product line. A line whose quantity drops to zero or below is removed.
// @Tags cart
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.EditCartRequest true "Product, quantity delta and date(s)"
// @Success 200 {object} models.Response{result=models.EditCartResult}
// @Failure 400 {object} models.Response "Malformed id or delisted product"
// @Failure 401 {object} models.Response
// @Failure 404 {object} models.Response "Product not found"
// @Failure 500 {object} models.Response
// @Router /users/cart [patch]
func (h *UserHandler) EditCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req models.EditCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.cartService.Edit(r.Context(), user.ID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "edit cart")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", result)
}

// UploadImage handles POST /users/image
// @Summary Upload profile image
// @Description Store a jpeg or png image of at most 1 MiB and set it as the profile image
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param image formData file true "Profile image"
// @Success 200 {object} models.Response{result=string} "Stored image URL"
// @Failure 400 {object} models.Response "Unsupported format or file too large"
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /users/image [post]
func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(2 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondServiceError(w, r, models.ErrFileTooLarge, "parse upload")
			return
		}
		h.Logger.Warn("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, msgInvalidUpload)
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, msgImageRequired)
		return
	}
	defer file.Close()

	if fileHeader.Size == 0 {
		h.RespondError(w, http.StatusBadRequest, msgEmptyImageFile)
		return
	}

	url, err := h.imageService.UpdateProfileImage(r.Context(), user.ID, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.RespondServiceError(w, r, err, "update profile image")
		return
	}

	h.RespondJSON(w, http.StatusOK, "", url)
}
