package registry

import (
	"fmt"
	"sync"

	"github.com/mockpay/sessionkit/internal/models"
)

// ErrDuplicateTransaction is returned by Begin when a transaction ID is
// already registered. With randomly generated IDs this indicates a caller
// bug, not a payment failure.
var ErrDuplicateTransaction = fmt.Errorf("transaction already registered")

// Session is the registry's read-only view of an in-flight coordinator,
// used for diagnostics.
type Session interface {
	Request() models.TransactionRequest
	Stage() models.Stage
}

// Registry keeps in-flight payment sessions reachable, keyed by transaction
// ID. It holds at most one live entry per ID; the owning coordinator removes
// its entry as the final act of the session. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex // protects sessions from concurrent access
	sessions map[string]Session
}

// New creates an empty registry. Callers own the instance; there is no
// package-level registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
	}
}

// Begin registers a session under id. It fails with ErrDuplicateTransaction
// if the id is already present.
func (r *Registry) Begin(id string, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
	}
	r.sessions[id] = s
	return nil
}

// End removes the entry for id. Removing an id that is not present is a
// no-op: completion paths inside a coordinator may race to clean up, so
// removal must be idempotent.
func (r *Registry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Lookup returns the live session for id, if any. Read-only, diagnostics
// only; the owning coordinator is the sole mutator of its entry.
func (r *Registry) Lookup(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of in-flight sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
