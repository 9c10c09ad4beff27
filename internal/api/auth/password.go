package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher runs bcrypt on a bounded pool so a burst of logins cannot
// occupy every CPU.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted

	dummyOnce sync.Once
	dummy     []byte
	dummyErr  error
}

func NewPasswordHasher(cost, concurrency int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(concurrency)),
	}
}

func (h *PasswordHasher) do(ctx context.Context, fn func()) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)
	fn()
	return nil
}

func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	var hashed []byte
	var err error
	if perr := h.do(ctx, func() {
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
	}); perr != nil {
		return "", perr
	}
	return string(hashed), err
}

// Compare reports whether password matches hash. A mismatch is not an error.
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	var err error
	if perr := h.do(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}); perr != nil {
		return false, perr
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return err == nil, err
}

// CompareDummy spends the same work as Compare against a hash no password
// matches. Login uses it for unknown emails.
func (h *PasswordHasher) CompareDummy(ctx context.Context, password string) error {
	h.dummyOnce.Do(func() {
		b := make([]byte, 24)
		if _, err := rand.Read(b); err != nil {
			h.dummyErr = err
			return
		}
		h.dummy, h.dummyErr = bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(b)), h.cost)
	})
	if h.dummyErr != nil {
		return h.dummyErr
	}
	_, err := h.Compare(ctx, string(h.dummy), password)
	return err
}
