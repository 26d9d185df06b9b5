package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/session"
)

const (
	ConfirmDeletePrompt = "Are you sure you want to delete this item?"

	MsgLoadError     = "Error loading items. Please try again."
	MsgDeleted       = "Item deleted successfully"
	MsgDeleteFailed  = "Error deleting item"
	MsgSignOutFailed = "Error signing out"
)

// ErrDeleteInFlight is returned when the same item is already being deleted.
var ErrDeleteInFlight = errors.New("delete already in progress for this item")

// Repository is the part of content.Repository the console reads and deletes through.
type Repository interface {
	List(ctx context.Context, c content.Collection, order content.Order) ([]*content.Item, error)
	Get(ctx context.Context, c content.Collection, id string) (*content.Item, error)
	Delete(ctx context.Context, c content.Collection, id string) error
}

// Confirmer asks the operator to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type LoadState int

const (
	Loading LoadState = iota
	Loaded
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "error"
	}
	return fmt.Sprintf("loadstate(%d)", int(s))
}

// Snapshot is a consistent copy of the console state.
type Snapshot struct {
	Tab       content.Collection
	Items     []*content.Item
	LoadState LoadState
	Error     string
	// Stale is set when a failed mutation may have left the local list out
	// of step with the store. The next reload clears it.
	Stale bool
}

type Options struct {
	Tab        content.Collection // initial tab; news when empty
	Timeout    time.Duration      // per repository call; content.DefaultTimeout when zero
	ToastDelay time.Duration      // DefaultToastDelay when zero
}

// listRequest identifies one list call. A response is applied only while
// both its tab and its sequence number are current.
type listRequest struct {
	tab content.Collection
	seq uint64
}

// Console is the tab-scoped admin list view over one collection at a time.
type Console struct {
	gate    *session.Gate
	repo    Repository
	nav     session.Navigator
	toaster *Toaster
	timeout time.Duration

	mu          sync.Mutex
	tab         content.Collection
	items       []*content.Item
	loadState   LoadState
	loadErr     string
	stale       bool
	seq         uint64
	pending     map[string]bool
	mounted     bool
	signedIn    bool
	loaded      <-chan struct{}
	inflight    <-chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

func New(gate *session.Gate, repo Repository, nav session.Navigator, opts Options) *Console {
	if opts.Timeout <= 0 {
		opts.Timeout = content.DefaultTimeout
	}
	if !opts.Tab.Valid() {
		opts.Tab = content.News
	}
	return &Console{
		gate:      gate,
		repo:      repo,
		nav:       nav,
		toaster:   NewToaster(opts.ToastDelay),
		timeout:   opts.Timeout,
		tab:       opts.Tab,
		loadState: Loading,
		pending:   make(map[string]bool),
	}
}

// Toaster returns the console's notification surface.
func (c *Console) Toaster() *Toaster { return c.toaster }

// Mount subscribes the console to the session gate. Without a session the
// operator is sent to the login view; with one, the active tab is loaded.
// Signing out drops the list, and the next sign in loads it again.
// The returned channel closes when the first load has resolved, or at
// once when there is no session.
func (c *Console) Mount() <-chan struct{} {
	c.mu.Lock()
	if c.mounted {
		loaded := c.loaded
		c.mu.Unlock()
		return loaded
	}
	c.mounted = true
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.mu.Unlock()

	unsubscribe := session.Guard(c.gate, c.nav, func(s *session.Session) {
		if s == nil {
			c.signedOut()
			return
		}

		c.mu.Lock()
		resumed := !c.signedIn
		c.signedIn = true
		c.mu.Unlock()
		if resumed {
			done := c.load()
			c.mu.Lock()
			c.loaded = done
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribe = unsubscribe
	if c.loaded == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return c.loaded
}

// signedOut drops the list of the ended session. Bumping seq discards any
// response still in flight for it.
func (c *Console) signedOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signedIn = false
	c.seq++
	c.items = nil
	c.stale = false
	c.loadState = Loading
	c.loadErr = ""
}

// Unmount unsubscribes from the gate and cancels in-flight list requests.
// Responses that arrive afterwards are discarded.
func (c *Console) Unmount() {
	c.mu.Lock()
	unsubscribe, cancel := c.unsubscribe, c.cancel
	c.mounted = false
	c.signedIn = false
	c.loaded = nil
	c.unsubscribe, c.cancel = nil, nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
}

// SelectTab switches the active collection and loads it. The returned
// channel closes when that load resolves. Selecting the active tab starts
// no new load and returns the latest one.
func (c *Console) SelectTab(tab content.Collection) (<-chan struct{}, error) {
	if !tab.Valid() {
		return nil, fmt.Errorf("%w: %q", content.ErrUnknownCollection, tab)
	}

	c.mu.Lock()
	if c.tab == tab && c.loadState != LoadError {
		done := c.inflight
		c.mu.Unlock()
		if done == nil {
			closed := make(chan struct{})
			close(closed)
			done = closed
		}
		return done, nil
	}
	c.tab = tab
	c.items = nil
	c.stale = false
	c.mu.Unlock()

	return c.load(), nil
}

// Reload lists the active tab again, reconciling the local list with the store.
func (c *Console) Reload() <-chan struct{} {
	return c.load()
}

func (c *Console) load() <-chan struct{} {
	c.mu.Lock()
	c.seq++
	req := listRequest{tab: c.tab, seq: c.seq}
	c.loadState = Loading
	c.loadErr = ""
	ctx := c.ctx
	done := make(chan struct{})
	c.inflight = done
	c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		items, err := c.repo.List(ctx, req.tab, req.tab.CanonicalOrder())
		c.apply(req, items, err)
	}()
	return done
}

// apply installs a list response if it is still the current request.
func (c *Console) apply(req listRequest, items []*content.Item, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted || req.tab != c.tab || req.seq != c.seq {
		log.Debug().
			Str("tab", string(req.tab)).
			Uint64("seq", req.seq).
			Msg("discarding stale list response")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("tab", string(req.tab)).Msg("error loading items")
		c.loadState = LoadError
		c.loadErr = MsgLoadError
		return
	}

	c.items = items
	c.loadState = Loaded
	c.stale = false
}

// Delete asks for confirmation and deletes id from the active tab. On
// success the item is removed locally without a reload. On failure the
// local list is left unchanged and marked stale. It reports whether the
// operator confirmed.
func (c *Console) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if !confirm.Confirm(ConfirmDeletePrompt) {
		return false, nil
	}

	c.mu.Lock()
	tab := c.tab
	if c.pending[id] {
		c.mu.Unlock()
		return true, ErrDeleteInFlight
	}
	c.pending[id] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.repo.Delete(ctx, tab, id); err != nil {
		log.Error().Err(err).Str("tab", string(tab)).Str("id", id).Msg("error deleting item")
		c.mu.Lock()
		c.stale = true
		c.mu.Unlock()
		c.toaster.Show(ToastError, MsgDeleteFailed)
		return true, fmt.Errorf("delete %s %s: %w", tab, id, err)
	}

	c.mu.Lock()
	if c.tab == tab {
		kept := make([]*content.Item, 0, len(c.items))
		for _, it := range c.items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		c.items = kept
	}
	c.mu.Unlock()

	c.toaster.Show(ToastSuccess, MsgDeleted)
	return true, nil
}

// EditTarget returns the item an edit form is pre-populated from: the local
// copy when the active tab holds it, otherwise a fresh read.
func (c *Console) EditTarget(ctx context.Context, col content.Collection, id string) (*content.Item, error) {
	c.mu.Lock()
	if col == c.tab && !c.stale {
		for _, it := range c.items {
			if it.ID == id {
				cp := *it
				c.mu.Unlock()
				return &cp, nil
			}
		}
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.repo.Get(ctx, col, id)
}

// SignOut ends the session and returns the operator to the login view.
func (c *Console) SignOut(ctx context.Context) error {
	c.mu.Lock()
	mounted := c.mounted
	c.mu.Unlock()

	err := c.gate.SignOut(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error signing out")
		c.toaster.Show(ToastError, MsgSignOutFailed)
	}
	// A mounted console is redirected by its gate subscription.
	if !mounted {
		c.nav.Navigate(session.LoginPath)
	}
	return err
}

func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]*content.Item, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Tab:       c.tab,
		Items:     items,
		LoadState: c.loadState,
		Error:     c.loadErr,
		Stale:     c.stale,
	}
}
