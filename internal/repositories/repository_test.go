package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUserID    = "5f0c7a2e-1b3d-4e6f-8a9b-0c1d2e3f4a5b"
	testProductID = "6a1c4f0e-2b7d-4c55-9a0e-1f2d3c4b5a69"
	testOrderID   = "7b2d5a1f-3c8e-4d66-ab1f-2a3e4d5c6b7a"
)

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// setupTestDB creates a mock database and logger shared by the repository tests
func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *zap.Logger, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, mock, logger, cleanup
}

var productColumns = []string{"id", "name", "price", "description", "image", "sell", "created_at"}
