package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

func TestUserService_CreateUser(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)")).
		WithArgs("Ana", "ana@example.com", "hash", "client").
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := NewUserService(conn).CreateUser(context.Background(), &db.User{
		Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", Role: db.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateUserDuplicate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@example.com' for key 'email'"})

	_, err = NewUserService(conn).CreateUser(context.Background(), &db.User{Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email already exists", apperr.MessageOf(err))
}

func TestUserService_CreateUserFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	_, err = NewUserService(conn).CreateUser(context.Background(), &db.User{Email: "ana@example.com"})
	require.Error(t, err)
	assert.NotEqual(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUserService_GetUserByEmail(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(3, "Rita", "rita@example.com", "hash", "recruiter", created, created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("rita@example.com").
		WillReturnRows(rows)

	u, err := NewUserService(conn).GetUserByEmail(context.Background(), "rita@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, db.RoleRecruiter, u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserService_GetUserByIDNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := NewUserService(conn).GetUserByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, u)
}
