package auth

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RevocationRegistry records tokens that must no longer be accepted even
// though their signature and expiry are still valid.
type RevocationRegistry interface {
	// Revoke marks token as revoked until expiresAt.  Revoking the same
	// token again is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	// IsRevoked reports whether token was revoked.  An error means the
	// answer is unknown and the token must not be trusted.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRegistry keeps revocations in process memory.  A Revoke that returns
// is visible to every later IsRevoked on any goroutine.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]time.Time)}
}

func (r *MemoryRegistry) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[token]; ok && !expiresAt.After(cur) {
		return nil
	}
	r.entries[token] = expiresAt
	return nil
}

func (r *MemoryRegistry) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[token]
	return ok, nil
}

// Prune forgets revocations whose token has expired by now and returns how
// many were dropped.  An expired token fails verification on its own, so
// forgetting it never lets it back in.  Entries with a zero expiry are kept.
func (r *MemoryRegistry) Prune(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for tok, exp := range r.entries {
		if !exp.IsZero() && !exp.After(now) {
			delete(r.entries, tok)
			n++
		}
	}
	return n, nil
}

// Len returns the number of tracked revocations.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Pruner is a registry that can forget revocations of expired tokens.
type Pruner interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// SchedulePrune starts a cron job that prunes p on spec (for example
// "@every 1m").  The caller stops the returned scheduler on shutdown.
func SchedulePrune(spec string, p Pruner, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := p.Prune(ctx, time.Now())
		if err != nil {
			log.WithError(err).Warn("revocation prune failed")
			return
		}
		if n > 0 {
			log.WithField("pruned", n).Debug("revocation registry pruned")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
