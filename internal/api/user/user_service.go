package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

// UserService is the MySQL credential store.
type UserService struct {
	db db.DBTX
}

func NewUserService(conn db.DBTX) *UserService {
	return &UserService{db: conn}
}

// CreateUser inserts the user and returns its id. The unique index on email
// decides conflicts, so concurrent registrations cannot both succeed.
func (s *UserService) CreateUser(ctx context.Context, u *db.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)",
		u.Name, u.Email, u.PasswordHash, string(u.Role))
	if err != nil {
		if db.IsDuplicateKey(err) {
			return 0, apperr.Wrap(apperr.KindConflict, "Email already exists", err)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return res.LastInsertId()
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	return s.getUser(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?", email)
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*db.User, error) {
	return s.getUser(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?", id)
}

func (s *UserService) getUser(ctx context.Context, query string, arg any) (*db.User, error) {
	var u db.User
	var role string
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Role = db.Role(role)
	return &u, nil
}
