package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/doshub/portal-backend/internal/console"
	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/remote"
	"github.com/doshub/portal-backend/internal/session"
)

var errNotSignedIn = errors.New(`not signed in, run "doshub-console login" first`)

// env is the per-command wiring of gate, client and session file.
type env struct {
	gate   *session.Gate
	client *remote.Client
	store  sessionStore
	nav    *terminalNavigator
	out    io.Writer
	in     *bufio.Reader
}

func newEnv(cmd *cobra.Command) (*env, error) {
	e := &env{
		store: sessionStore{path: appConfig.SessionFile},
		nav:   &terminalNavigator{},
		out:   cmd.OutOrStdout(),
		in:    bufio.NewReader(cmd.InOrStdin()),
	}

	e.client = remote.New(appConfig.Server,
		remote.WithTimeout(appConfig.Timeout),
		remote.WithToken(func() string { return e.gate.Token() }),
		remote.WithUnauthorizedHandler(func() { e.gate.Invalidate() }),
	)
	e.gate = session.NewGate(e.client)

	saved, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	if saved != nil {
		e.gate.Restore(saved)
	}

	// Persist every transition so the next invocation starts where this one ends.
	e.gate.Subscribe(func(s *session.Session) {
		var err error
		if s == nil {
			err = e.store.Clear()
		} else {
			err = e.store.Save(s)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to persist session")
		}
	})

	return e, nil
}

// mount opens the console on tab and waits for the first load.
func (e *env) mount(tab content.Collection) (*console.Console, error) {
	c := console.New(e.gate, e.client, e.nav, console.Options{
		Tab:        tab,
		Timeout:    appConfig.Timeout,
		ToastDelay: appConfig.ToastDelay,
	})
	c.Toaster().OnChange(func(t *console.Toast) {
		if t != nil {
			fmt.Fprintf(e.out, "[%s] %s\n", t.Kind, t.Message)
		}
	})

	<-c.Mount()
	if e.nav.At(session.LoginPath) {
		c.Unmount()
		return nil, errNotSignedIn
	}
	return c, nil
}

// prompt prints question and reads one trimmed line.
func (e *env) prompt(question string) (string, error) {
	fmt.Fprint(e.out, question)
	line, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// terminalNavigator records the last view the console asked for.
type terminalNavigator struct {
	mu   sync.Mutex
	path string
}

func (n *terminalNavigator) Navigate(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
	log.Debug().Str("path", path).Msg("navigate")
}

func (n *terminalNavigator) At(path string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path == path
}
