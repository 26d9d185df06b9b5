package console

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/session"
)

// AdminPath is the console list view.
const AdminPath = "/admin"

// NewPath is the create form of c.
func NewPath(c content.Collection) string {
	return AdminPath + "/" + string(c) + "/new"
}

// EditPath is the edit form of item id in c.
func EditPath(c content.Collection, id string) string {
	return AdminPath + "/" + string(c) + "/" + url.PathEscape(id)
}

// RouteKind identifies a console view.
type RouteKind int

const (
	RouteList RouteKind = iota
	RouteLogin
	RouteNew
	RouteEdit
)

// Route is a parsed console path.
type Route struct {
	Kind       RouteKind
	Collection content.Collection
	ID         string
}

// ParseRoute resolves a console path.
func ParseRoute(path string) (Route, error) {
	path = strings.TrimRight(path, "/")
	switch path {
	case AdminPath:
		return Route{Kind: RouteList}, nil
	case session.LoginPath:
		return Route{Kind: RouteLogin}, nil
	}

	rest, ok := strings.CutPrefix(path, AdminPath+"/")
	if !ok {
		return Route{}, fmt.Errorf("not a console path: %q", path)
	}
	name, tail, ok := strings.Cut(rest, "/")
	if !ok || tail == "" || strings.Contains(tail, "/") {
		return Route{}, fmt.Errorf("not a console path: %q", path)
	}

	c, err := content.ParseCollection(name)
	if err != nil {
		return Route{}, err
	}
	if tail == "new" {
		return Route{Kind: RouteNew, Collection: c}, nil
	}
	id, err := url.PathUnescape(tail)
	if err != nil {
		return Route{}, fmt.Errorf("not a console path: %q: %w", path, err)
	}
	return Route{Kind: RouteEdit, Collection: c, ID: id}, nil
}
