package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestListSurfacesStorageErrors(t *testing.T) {
	store, mock := newMockStore(t)
	errBoom := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT \* FROM "waitlist_entries"`).WillReturnError(errBoom)

	_, err := store.Waitlist().ListByRestaurant(context.Background(), 1, false)
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRestaurantSurfacesStorageErrors(t *testing.T) {
	store, mock := newMockStore(t)
	errBoom := errors.New("too many connections")

	mock.ExpectQuery(`SELECT restaurant_id, COUNT\(\*\) AS total FROM "waitlist_entries"`).WillReturnError(errBoom)

	_, err := store.Waitlist().CountWaitingByRestaurant(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "waitlist_entries"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Waitlist().Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTranslatesNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := store.Users().Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
