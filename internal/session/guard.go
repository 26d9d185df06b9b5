package session

// LoginPath is the redirect target whenever no session is present.
const LoginPath = "/admin/login"

// Navigator moves the operator to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Guard subscribes a view to g. Whenever the delivered session is nil,
// including the first delivery, the view is redirected to LoginPath.
// onSession then sees every delivery, nil included, so the view can drop
// state tied to the previous session. The returned function must be called
// when the view goes away.
func Guard(g *Gate, nav Navigator, onSession func(*Session)) (unsubscribe func()) {
	return g.Subscribe(func(s *Session) {
		if s == nil {
			nav.Navigate(LoginPath)
		}
		if onSession != nil {
			onSession(s)
		}
	})
}
