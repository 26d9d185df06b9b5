package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Listener receives the current session, or nil when signed out.
type Listener func(*Session)

// Gate tracks the operator session and pushes every transition to its
// subscribers. A Gate is passed explicitly to every view that needs it.
//
// Listeners are called sequentially and must not call SignIn, SignOut,
// Restore, Invalidate or Subscribe on the same Gate. Unsubscribing from
// inside a listener is allowed.
type Gate struct {
	auth Authenticator
	now  func() time.Time

	deliver sync.Mutex // serializes notifications

	mu        sync.Mutex
	current   *Session
	listeners map[uint64]Listener
	nextID    uint64
}

func NewGate(auth Authenticator) *Gate {
	return &Gate{
		auth:      auth,
		now:       time.Now,
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers fn and calls it once with the current session before
// returning. The returned function removes fn and is safe to call twice.
func (g *Gate) Subscribe(fn Listener) (unsubscribe func()) {
	g.deliver.Lock()
	defer g.deliver.Unlock()

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	current := g.current
	g.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

// Current returns the active session or nil.
func (g *Gate) Current() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Token returns the bearer token of the active session, or "".
func (g *Gate) Token() string {
	if s := g.Current(); s != nil {
		return s.Token
	}
	return ""
}

// SignIn authenticates and, on success, moves the gate to the new session.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	g.transition(s)
	log.Debug().Str("email", s.Email).Msg("operator signed in")
	return s, nil
}

// SignOut ends the session. The local session is always cleared and
// subscribers notified; a failure to end it remotely is returned.
func (g *Gate) SignOut(ctx context.Context) error {
	s := g.Current()
	if s == nil {
		return nil
	}

	err := g.auth.Logout(ctx, s.Token)
	g.transition(nil)
	log.Debug().Str("email", s.Email).Msg("operator signed out")

	if err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}
	return nil
}

// Restore installs a previously issued session. Expired sessions are ignored.
func (g *Gate) Restore(s *Session) {
	if s.Expired(g.now()) {
		s = nil
	}
	g.transition(s)
}

// Invalidate drops the session without contacting the server, for instance
// after the server rejected the token.
func (g *Gate) Invalidate() {
	g.transition(nil)
}

func (g *Gate) transition(s *Session) {
	g.deliver.Lock()
	defer g.deliver.Unlock()

	g.mu.Lock()
	if g.current == nil && s == nil {
		g.mu.Unlock()
		return
	}
	g.current = s

	ids := make([]uint64, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	g.mu.Unlock()

	for _, id := range ids {
		// Skip listeners removed by an earlier callback of this round.
		g.mu.Lock()
		fn, ok := g.listeners[id]
		g.mu.Unlock()
		if ok {
			fn(s)
		}
	}
}
