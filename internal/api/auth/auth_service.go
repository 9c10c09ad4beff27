package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
	"github.com/hsm-gustavo/job-board/internal/logging"
	"github.com/hsm-gustavo/job-board/internal/validation"
)

// UserStore is the credential store. Lookups return (nil, nil) when no user
// matches; CreateUser returns apperr Conflict for a taken email.
type UserStore interface {
	CreateUser(ctx context.Context, u *db.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// RegistrationPolicy decides the role of a newly registered account.
type RegistrationPolicy struct {
	DefaultRole     db.Role
	AllowRoleChoice bool
}

var (
	// AdminRegistration backs the admin console: role is optional and
	// defaults to recruiter.
	AdminRegistration = RegistrationPolicy{DefaultRole: db.RoleRecruiter, AllowRoleChoice: true}
	// ClientRegistration backs the job-seeker app: always a client.
	ClientRegistration = RegistrationPolicy{DefaultRole: db.RoleClient}
)

// resolve picks the role to store; the result is validated with the rest
// of the input.
func (p RegistrationPolicy) resolve(requested db.Role) db.Role {
	if !p.AllowRoleChoice || requested == "" {
		return p.DefaultRole
	}
	return requested
}

type RegisterInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required"`
	Role     db.Role `json:"role" validate:"required,oneof=recruiter client"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *db.User
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	hasher *PasswordHasher
	log    logging.Logger
}

func NewAuthService(users UserStore, tokens *TokenService, hasher *PasswordHasher, log logging.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, policy RegistrationPolicy) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = policy.resolve(in.Role)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.InvalidInput("Password must be at most 72 bytes")
		}
		return nil, apperr.Internal("hashing password", err)
	}

	user := &db.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, apperr.Internal("creating user", err)
	}
	user.ID = id

	s.log.Info(ctx, "user registered", "user_id", id, "role", user.Role)

	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are the same
// InvalidCredentials error and cost the same bcrypt work.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validation.Struct(loginInput{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("retrieving user", err)
	}

	if user == nil {
		if err := s.hasher.CompareDummy(ctx, password); err != nil {
			return nil, apperr.Internal("comparing password", err)
		}
		return nil, apperr.InvalidCredentials("Email or password is incorrect")
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, apperr.Internal("comparing password", err)
	}
	if !ok {
		return nil, apperr.InvalidCredentials("Email or password is incorrect")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *db.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal("signing token", fmt.Errorf("user %d: %w", user.ID, err))
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}
