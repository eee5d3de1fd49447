package services

import (
	"quotes-backend/internal/models"
	"quotes-backend/internal/utils"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userColumns() []string {
	return []string{"id", "username", "email", "password_hash", "is_active", "created_at", "updated_at"}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Register(&models.UserRegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesUser(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	user, err := svc.Register(&models.UserRegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	// 库里只能存哈希
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, utils.VerifyPassword(user.PasswordHash, "secret1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewAuthService(db)

	hash, err := utils.HashPassword("correcta")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND is_active = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "ana", "ana@example.com", hash, true, time.Now(), time.Now()))

	_, err = svc.Login(&models.UserLoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, ErrInvalidLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND is_active = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := svc.Login(&models.UserLoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccess(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewAuthService(db)

	hash, err := utils.HashPassword("correcta")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND is_active = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "ana", "ana@example.com", hash, true, time.Now(), time.Now()))

	user, err := svc.Login(&models.UserLoginRequest{Email: "ana@example.com", Password: "correcta"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
