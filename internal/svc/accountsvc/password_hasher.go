package accountsvc

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher turns plaintext passwords into salted one-way hashes and checks them.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt.
// At most a fixed number of hash operations run at once, so a burst of logins
// cannot starve the request goroutines of CPU.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher. cost is clamped to bcrypt's valid range,
// and a non-positive concurrency means GOMAXPROCS.
func NewBcryptHasher(cost, concurrency int) *BcryptHasher {
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &BcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(concurrency)),
	}
}

// Cost returns the bcrypt work factor in use.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of password, with salt and cost embedded.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.slots.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("generate hash: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
// It only fails when ctx ends before the comparison could start.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
