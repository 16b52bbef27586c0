package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/auth"
	"github.com/shopfront/backend/internal/cart"
	"github.com/shopfront/backend/internal/metrics"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultImageURL is the avatar assigned to new accounts
const defaultImageURL = "https://api.multiavatar.com/%s.png"

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If the account or email is already taken, models.ErrDuplicateAccount will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByAccount retrieves a user by account name.
	//
	// If user with such account does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByAccount(ctx context.Context, account string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// SessionRepository is the interface that wraps methods for Session table data access
type SessionRepository interface {
	// Method Create inserts a new session into the database.
	//
	// "session" parameter is used to create a new session, its ID is filled on success.
	Create(ctx context.Context, session *models.Session) error
	// Method GetByUserAndToken retrieves the session holding "token" for user "userID".
	//
	// If no such session exists, models.ErrNotFound will be returned together with "nil" value.
	GetByUserAndToken(ctx context.Context, userID, token string) (*models.Session, error)
	// Method UpdateToken replaces "oldToken" with "newToken" in the session of user "userID".
	//
	// If no such session exists, models.ErrNotFound will be returned.
	UpdateToken(ctx context.Context, oldToken, newToken, userID string) error
	// Method DeleteByToken deletes a session by token string.
	//
	// Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// Method DeleteExpired deletes all sessions created at or before "expiryTime" and returns how many were removed.
	DeleteExpired(ctx context.Context, expiryTime time.Time) (int, error)
}

// CartLineReader is the interface that wraps reading of cart lines
type CartLineReader interface {
	// Method GetLines retrieves the cart lines of a user in insertion order.
	GetLines(ctx context.Context, userID string) ([]models.CartLine, error)
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	sessionRepo    SessionRepository
	cartRepo       CartLineReader
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	cartRepo CartLineReader,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		cartRepo:       cartRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	if err := ValidateRegistration(req); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Account:      req.Account,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Role:         models.RoleUser,
		Image:        fmt.Sprintf(defaultImageURL, req.Account),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user registered", zap.String("userId", user.ID), zap.String("account", user.Account))
	return nil
}

// Login checks the credentials, opens a new session and returns its token with the public profile
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (result *models.LoginResult, err error) {
	defer func() {
		metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	account := strings.TrimSpace(req.Account)
	if account == "" || req.Password == "" {
		return nil, models.NewValidationError("account", "account and password are required")
	}

	user, err := s.userRepo.GetByAccount(ctx, account)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidAccount
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidPassword
	}

	token, err := s.tokenGenerator.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, &models.Session{UserID: user.ID, Token: token}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	profile, err := s.publicProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResult{Token: token, PublicProfile: *profile}, nil
}

// Authenticate resolves a bearer token to its user.
//
// An expired token is rejected with models.ErrSessionExpired unless allowExpired is set,
// which is the case for refreshing and closing a session. A token that no longer has a
// session row (logged out or rotated) is rejected with models.ErrInvalidSession.
func (s *authService) Authenticate(ctx context.Context, token string, allowExpired bool) (*models.User, error) {
	claims, err := s.tokenGenerator.Decode(token)
	if err != nil {
		return nil, err
	}

	if !allowExpired && claims.Expired(s.now()) {
		return nil, models.ErrSessionExpired
	}

	if _, err := s.sessionRepo.GetByUserAndToken(ctx, claims.UserID, token); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidSession
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Refresh rotates the token of the session holding oldToken; other sessions of the user are untouched
func (s *authService) Refresh(ctx context.Context, userID, oldToken string) (string, error) {
	newToken, err := s.tokenGenerator.Generate(userID)
	if err != nil {
		return "", err
	}

	if err := s.sessionRepo.UpdateToken(ctx, oldToken, newToken, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidSession
		}
		return "", err
	}

	return newToken, nil
}

// Logout closes the session holding token
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// Profile returns the public profile of user with the current cart total
func (s *authService) Profile(ctx context.Context, user *models.User) (*models.PublicProfile, error) {
	return s.publicProfile(ctx, user)
}

// SweepExpiredSessions removes sessions that can no longer be refreshed.
//
// Expired tokens stay refreshable for one more token lifetime, so only sessions older than
// twice the token expiry are removed.
func (s *authService) SweepExpiredSessions(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-2 * s.tokenGenerator.Expiry())

	removed, err := s.sessionRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to sweep expired sessions", zap.Error(err))
		return 0, err
	}

	metrics.SessionsSweptTotal.Add(float64(removed))
	s.logger.Info("expired sessions swept", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	return removed, nil
}

func (s *authService) publicProfile(ctx context.Context, user *models.User) (*models.PublicProfile, error) {
	lines, err := s.cartRepo.GetLines(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &models.PublicProfile{
		Account: user.Account,
		Name:    user.Name,
		Role:    user.Role,
		Cart:    cart.Total(lines),
		Image:   user.Image,
	}, nil
}
