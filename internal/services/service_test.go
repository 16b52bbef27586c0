package services

import (
	"context"
	"io"
	"time"

	"github.com/shopfront/backend/internal/models"
)

const (
	testUserID    = "5f0c7a2e-1b3d-4e6f-8a9b-0c1d2e3f4a5b"
	testProductID = "6a1c4f0e-2b7d-4c55-9a0e-1f2d3c4b5a69"
	otherProduct  = "8c3e6b20-4d9f-4e77-bc20-3b4f5e6d7c8b"
)

// mockUserRepository is a mock implementation of UserRepository and UserImageRepository
type mockUserRepository struct {
	user        *models.User
	err         error
	createErr   error
	created     *models.User
	updateErr   error
	updatedURL  string
	getByIDErr  error
	getByIDUser *models.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	if m.getByIDUser != nil {
		return m.getByIDUser, nil
	}
	return m.user, nil
}

func (m *mockUserRepository) UpdateImage(ctx context.Context, userID, image string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedURL = image
	return nil
}

// mockSessionRepository is a mock implementation of SessionRepository backed by a token set
type mockSessionRepository struct {
	sessions      map[string]string // token -> user id
	err           error
	deleteErr     error
	expiredCount  int
	expiredCutoff time.Time
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]string)}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[session.Token] = session.UserID
	session.ID = len(m.sessions)
	return nil
}

func (m *mockSessionRepository) GetByUserAndToken(ctx context.Context, userID, token string) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if owner, ok := m.sessions[token]; ok && owner == userID {
		return &models.Session{UserID: userID, Token: token}, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockSessionRepository) UpdateToken(ctx context.Context, oldToken, newToken, userID string) error {
	if m.err != nil {
		return m.err
	}
	if owner, ok := m.sessions[oldToken]; !ok || owner != userID {
		return models.ErrNotFound
	}
	delete(m.sessions, oldToken)
	m.sessions[newToken] = userID
	return nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, expiryTime time.Time) (int, error) {
	m.expiredCutoff = expiryTime
	if m.err != nil {
		return 0, m.err
	}
	return m.expiredCount, nil
}

// mockCartRepository is a mock implementation of CartRepository holding a single cart
type mockCartRepository struct {
	lines       []models.CartLine
	items       []models.CartItem
	err         error
	itemsErr    error
	replaceErr  error
	replaced    bool
	replaceCall []models.CartLine
}

func (m *mockCartRepository) GetLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lines, nil
}

func (m *mockCartRepository) GetItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

func (m *mockCartRepository) ReplaceLines(ctx context.Context, userID string, lines []models.CartLine) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = true
	m.replaceCall = lines
	m.lines = lines
	return nil
}

// mockProductRepository is a mock implementation of ProductRepository
type mockProductRepository struct {
	products  map[string]*models.Product
	list      []models.Product
	err       error
	updateErr error
	onSale    bool
	created   *models.Product
	updated   *models.UpdateProductRequest
}

func (m *mockProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockProductRepository) List(ctx context.Context, onSaleOnly bool) ([]models.Product, error) {
	m.onSale = onSaleOnly
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if m.err != nil {
		return m.err
	}
	m.created = product
	if m.products == nil {
		m.products = make(map[string]*models.Product)
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, productID string, req *models.UpdateProductRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = req
	return nil
}

// mockOrderRepository is a mock implementation of OrderRepository
type mockOrderRepository struct {
	orders     []models.Order
	err        error
	created    *models.Order
	snapshot   []models.CartLine
	cartToWipe *mockCartRepository
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, order *models.Order, lines []models.CartLine) error {
	if m.err != nil {
		return m.err
	}
	m.created = order
	m.snapshot = lines
	if m.cartToWipe != nil {
		m.cartToWipe.lines = nil
		m.cartToWipe.items = nil
	}
	return nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

// mockImageStorage is a mock implementation of ImageStorage
type mockImageStorage struct {
	err         error
	key         string
	body        []byte
	contentType string
	deleted     string
}

func (m *mockImageStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.key = key
	m.body = data
	m.contentType = contentType
	return "http://cdn.test/" + key, nil
}

func (m *mockImageStorage) Delete(ctx context.Context, key string) error {
	m.deleted = key
	return nil
}
