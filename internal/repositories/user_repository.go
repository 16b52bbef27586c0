package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/shopfront/backend/internal/models"
	"go.uber.org/zap"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, account, email, password_hash, name, role, image)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Account, user.Email, user.PasswordHash, user.Name, user.Role, user.Image)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrDuplicateAccount
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByAccount retrieves a user by account name
func (r *userRepository) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	query := `
		SELECT id, account, email, password_hash, name, role, image, created_at, updated_at
		FROM users
		WHERE account = ?
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, account))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", account, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by account", zap.Error(err), zap.String("account", account))
		return nil, fmt.Errorf("failed to get user by account: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, account, email, password_hash, name, role, image, created_at, updated_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// UpdateImage replaces the profile image reference of a user
func (r *userRepository) UpdateImage(ctx context.Context, userID, image string) error {
	query := `UPDATE users SET image = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, image, userID)
	if err != nil {
		r.logger.Error("failed to update user image", zap.Error(err), zap.String("userId", userID))
		return fmt.Errorf("failed to update user image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Account,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
