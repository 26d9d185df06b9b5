package console

import (
	"sync"
	"time"
)

// DefaultToastDelay is how long a toast stays visible.
const DefaultToastDelay = 3 * time.Second

type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

func (k ToastKind) String() string {
	if k == ToastError {
		return "error"
	}
	return "success"
}

// Toast is a transient operator notification.
type Toast struct {
	Kind    ToastKind
	Message string
}

// Toaster holds at most one toast. Showing a new toast replaces the current
// one and restarts the dismiss timer.
type Toaster struct {
	delay time.Duration

	mu       sync.Mutex
	current  *Toast
	gen      uint64
	timer    *time.Timer
	onChange func(*Toast)
}

func NewToaster(delay time.Duration) *Toaster {
	if delay <= 0 {
		delay = DefaultToastDelay
	}
	return &Toaster{delay: delay}
}

// OnChange registers fn to receive the displayed toast, or nil on dismissal.
func (t *Toaster) OnChange(fn func(*Toast)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *Toaster) Show(kind ToastKind, message string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	toast := &Toast{Kind: kind, Message: message}
	t.current = toast
	t.timer = time.AfterFunc(t.delay, func() { t.expire(gen) })
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(toast)
	}
}

// Current returns the visible toast, or nil.
func (t *Toaster) Current() *Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	cp := *t.current
	return &cp
}

// Dismiss hides the current toast immediately.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.mu.Unlock()
	t.expire(gen)
}

// expire clears the toast shown as generation gen, unless it was replaced.
func (t *Toaster) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.current == nil {
		t.mu.Unlock()
		return
	}
	t.current = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}
