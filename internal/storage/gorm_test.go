package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*GormBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGormBackend(gdb), mock
}

func TestGormBackendGet(t *testing.T) {
	backend, mock := newMockGorm(t)
	mock.ExpectQuery("SELECT \\* FROM `collection_records` WHERE collection_key = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"collection_key", "value", "updated_at"}).
			AddRow("appointments", `[{"id":"a"}]`, time.Now()))

	raw, err := backend.Get(context.Background(), "appointments")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendGetMissing(t *testing.T) {
	backend, mock := newMockGorm(t)
	mock.ExpectQuery("SELECT \\* FROM `collection_records`").
		WillReturnRows(sqlmock.NewRows([]string{"collection_key", "value", "updated_at"}))

	_, err := backend.Get(context.Background(), "profile")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendSetUpserts(t *testing.T) {
	backend, mock := newMockGorm(t)
	mock.ExpectExec("INSERT INTO `collection_records` .* ON DUPLICATE KEY UPDATE").
		WithArgs("symptoms", "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Set(context.Background(), "symptoms", []byte("[]")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendSetError(t *testing.T) {
	backend, mock := newMockGorm(t)
	mock.ExpectExec("INSERT INTO `collection_records`").
		WillReturnError(errors.New("disk full"))

	err := backend.Set(context.Background(), "symptoms", []byte("[]"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestGormBackendDelete(t *testing.T) {
	backend, mock := newMockGorm(t)
	mock.ExpectExec("DELETE FROM `collection_records` WHERE collection_key = \\?").
		WithArgs("messages").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Delete(context.Background(), "messages"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
