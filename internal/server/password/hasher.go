// Package password wraps bcrypt hashing behind a bounded-concurrency Hasher.
// Hashing is intentionally slow; the semaphore keeps a burst of logins from
// monopolizing every scheduler thread with CPU-bound bcrypt work.
package password

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

type Hasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewHasher returns a Hasher with the given bcrypt cost and GOMAXPROCS
// computation slots. Costs outside the bcrypt range fall back to the bcrypt
// default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash computes a salted bcrypt hash of plain. It blocks while all
// computation slots are busy and honors ctx cancellation while waiting.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether candidate matches the stored bcrypt hash.
// The comparison itself is constant-time inside bcrypt.
func (h *Hasher) Compare(ctx context.Context, hash, candidate string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
