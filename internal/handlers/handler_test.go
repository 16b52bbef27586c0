package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopfront/backend/internal/middleware"
	"github.com/shopfront/backend/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUserID    = "5f0c7a2e-1b3d-4e6f-8a9b-0c1d2e3f4a5b"
	testProductID = "6a1c4f0e-2b7d-4c55-9a0e-1f2d3c4b5a69"
	testToken     = "session-token"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	registerErr  error
	loginResult  *models.LoginResult
	loginErr     error
	refreshToken string
	refreshErr   error
	logoutErr    error
	profile      *models.PublicProfile
	profileErr   error

	gotRegister  *models.RegisterRequest
	gotLogin     *models.LoginRequest
	gotUserID    string
	gotToken     string
	logoutCalled bool
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	m.gotRegister = req
	return m.registerErr
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	m.gotLogin = req
	return m.loginResult, m.loginErr
}

func (m *mockAuthService) Refresh(ctx context.Context, userID, oldToken string) (string, error) {
	m.gotUserID = userID
	m.gotToken = oldToken
	return m.refreshToken, m.refreshErr
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	m.logoutCalled = true
	m.gotToken = token
	return m.logoutErr
}

func (m *mockAuthService) Profile(ctx context.Context, user *models.User) (*models.PublicProfile, error) {
	return m.profile, m.profileErr
}

// mockCartService is a mock implementation of CartService
type mockCartService struct {
	editResult *models.EditCartResult
	editErr    error
	items      []models.CartItem
	getErr     error

	gotUserID string
	gotEdit   *models.EditCartRequest
}

func (m *mockCartService) Edit(ctx context.Context, userID string, req *models.EditCartRequest) (*models.EditCartResult, error) {
	m.gotUserID = userID
	m.gotEdit = req
	return m.editResult, m.editErr
}

func (m *mockCartService) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	m.gotUserID = userID
	return m.items, m.getErr
}

// mockImageService is a mock implementation of ImageService
type mockImageService struct {
	url string
	err error

	gotUserID      string
	gotContentType string
	gotBody        []byte
}

func (m *mockImageService) UpdateProfileImage(ctx context.Context, userID string, file io.Reader, contentType string) (string, error) {
	m.gotUserID = userID
	m.gotContentType = contentType
	m.gotBody, _ = io.ReadAll(file)
	return m.url, m.err
}

// mockOrderService is a mock implementation of OrderService
type mockOrderService struct {
	order     *models.Order
	placeErr  error
	orders    []models.Order
	listErr   error
	gotUserID string
	gotRooms  []string
	allCalled bool
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, userID string, rooms []string) (*models.Order, error) {
	m.gotUserID = userID
	m.gotRooms = rooms
	return m.order, m.placeErr
}

func (m *mockOrderService) ListOwn(ctx context.Context, userID string) ([]models.Order, error) {
	m.gotUserID = userID
	return m.orders, m.listErr
}

func (m *mockOrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	m.allCalled = true
	return m.orders, m.listErr
}

// mockProductService is a mock implementation of ProductService
type mockProductService struct {
	products           []models.Product
	product            *models.Product
	err                error
	gotIncludeDelisted bool
	gotID              string
	gotCreate          *models.CreateProductRequest
	gotUpdate          *models.UpdateProductRequest
}

func (m *mockProductService) List(ctx context.Context, includeDelisted bool) ([]models.Product, error) {
	m.gotIncludeDelisted = includeDelisted
	return m.products, m.err
}

func (m *mockProductService) Get(ctx context.Context, productID string) (*models.Product, error) {
	m.gotID = productID
	return m.product, m.err
}

func (m *mockProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	m.gotCreate = req
	return m.product, m.err
}

func (m *mockProductService) Update(ctx context.Context, productID string, req *models.UpdateProductRequest) (*models.Product, error) {
	m.gotID = productID
	m.gotUpdate = req
	return m.product, m.err
}

// mockSweeper is a mock implementation of SessionSweeper
type mockSweeper struct {
	deleted int
	err     error
}

func (m *mockSweeper) SweepExpiredSessions(ctx context.Context) (int, error) {
	return m.deleted, m.err
}

// fakeAuth stores user in the context when the request carries the test token
func fakeAuth(user *models.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user, testToken)))
		})
	}
}

func testUser() *models.User {
	return &models.User{ID: testUserID, Account: "alice01", Name: "Alice", Role: models.RoleUser}
}

// envelope mirrors models.Response with a raw result for typed decoding
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func serve(r chi.Router, method, path string, body io.Reader, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
