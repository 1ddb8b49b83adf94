package token

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NonceGenerator issues process-unique nonces.
//
// ulid.MonotonicEntropy is not safe for concurrent use, so every draw is
// serialised. Within one millisecond successive nonces increase strictly.
type NonceGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewNonceGenerator creates a generator backed by crypto/rand.
func NewNonceGenerator() *NonceGenerator {
	return newNonceGenerator(rand.Reader, time.Now)
}

func newNonceGenerator(r io.Reader, now func() time.Time) *NonceGenerator {
	return &NonceGenerator{
		entropy: ulid.Monotonic(r, 0),
		now:     now,
	}
}

// Next returns a new nonce.
func (g *NonceGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var defaultNonces = NewNonceGenerator()

// NewNonce returns a nonce from the process-wide generator.
func NewNonce() (string, error) {
	return defaultNonces.Next()
}
