package engine

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces run tokens. One token correlates all log lines
// and trace events of a single propagation run.
type TokenGenerator interface {
	Generate() string
}

// UUIDTokens issues time-sortable UUIDv7 run tokens, so tokens sort by run
// start time in logs and traces.
//
// Stateless and safe for concurrent use.
type UUIDTokens struct{}

// Generate returns a new hyphenated UUIDv7 string. Panics if UUID
// generation fails, which does not happen in practice.
func (UUIDTokens) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns a predetermined token sequence. Tests install it via
// WithTokens so traces compare byte-for-byte against golden files.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that hands out tokens in order and
// panics when the sequence is exhausted; running out means the test
// propagated more often than it expected to.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedTokens: sequence exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
