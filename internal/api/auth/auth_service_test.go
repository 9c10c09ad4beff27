package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
	"github.com/hsm-gustavo/job-board/internal/logging"
)

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*db.User
	nextID  int64
	err     error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*db.User{}}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, u *db.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return 0, apperr.Conflict("Email already exists")
	}
	f.nextID++
	stored := *u
	stored.ID = f.nextID
	f.byEmail[u.Email] = &stored
	return stored.ID, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func newTestAuthService(t *testing.T, store UserStore) (*AuthService, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	return NewAuthService(store, tokens, NewPasswordHasher(bcrypt.MinCost, 2), logging.Nop()), tokens
}

func TestAuthService_Register(t *testing.T) {
	store := newFakeUserStore()
	svc, tokens := newTestAuthService(t, store)

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  João Silva ",
		Email:    " Joao@Example.com",
		Password: "password123",
	}, AdminRegistration)
	require.NoError(t, err)

	assert.Equal(t, "João Silva", session.User.Name)
	assert.Equal(t, "joao@example.com", session.User.Email)
	assert.Equal(t, db.RoleRecruiter, session.User.Role)
	assert.NotEqual(t, "password123", store.byEmail["joao@example.com"].PasswordHash)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, db.RoleRecruiter, claims.Role)
}

func TestAuthService_RegisterRolePolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    RegistrationPolicy
		requested db.Role
		want      db.Role
		kind      apperr.Kind
	}{
		{name: "admin default", policy: AdminRegistration, want: db.RoleRecruiter},
		{name: "admin picks client", policy: AdminRegistration, requested: db.RoleClient, want: db.RoleClient},
		{name: "admin unknown role", policy: AdminRegistration, requested: "admin", kind: apperr.KindInvalidInput},
		{name: "client default", policy: ClientRegistration, want: db.RoleClient},
		{name: "client cannot escalate", policy: ClientRegistration, requested: db.RoleRecruiter, want: db.RoleClient},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t, newFakeUserStore())

			session, err := svc.Register(context.Background(), RegisterInput{
				Name: "Ana", Email: "ana@example.com", Password: "password123", Role: tc.requested,
			}, tc.policy)
			if tc.want == "" {
				require.Error(t, err)
				assert.Equal(t, tc.kind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, session.User.Role)
		})
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserStore())

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "pw"}},
		{"missing email", RegisterInput{Name: "A", Password: "pw"}},
		{"missing password", RegisterInput{Name: "A", Email: "a@example.com"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "pw"}},
		{"password too long", RegisterInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 80)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in, AdminRegistration)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserStore())
	in := RegisterInput{Name: "A", Email: "dup@example.com", Password: "password123"}

	_, err := svc.Register(context.Background(), in, AdminRegistration)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Register(context.Background(), in, ClientRegistration)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email already exists", apperr.MessageOf(err))
}

func TestAuthService_RegisterStoreFailure(t *testing.T) {
	store := newFakeUserStore()
	store.err = errors.New("connection reset")
	svc, _ := newTestAuthService(t, store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@example.com", Password: "password123",
	}, AdminRegistration)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens := newTestAuthService(t, newFakeUserStore())
	registered, err := svc.Register(context.Background(), RegisterInput{
		Name: "Rita", Email: "rita@example.com", Password: "password123",
	}, AdminRegistration)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "RITA@example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserStore())
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Rita", Email: "rita@example.com", Password: "password123",
	}, AdminRegistration)
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "rita@example.com", "nope")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "password123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(wrongPassword))
	assert.Equal(t, apperr.KindOf(wrongPassword), apperr.KindOf(unknownEmail))
	assert.Equal(t, apperr.MessageOf(wrongPassword), apperr.MessageOf(unknownEmail))
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserStore())

	_, err := svc.Login(context.Background(), "", "pw")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "a@example.com", "")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	store := newFakeUserStore()
	store.err = errors.New("connection reset")
	svc, _ := newTestAuthService(t, store)

	_, err := svc.Login(context.Background(), "a@example.com", "pw")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
