// Package navigation holds the route table of the dashboard shell and the
// active-route marking applied to it.
package navigation

import (
	"errors"
	"fmt"
)

var ErrDuplicateRoute = errors.New("duplicate route path")

// Route is one sidebar link.
type Route struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Entry is a route marked for rendering.
type Entry struct {
	Route
	Current bool `json:"current"`
}

// DefaultRoutes returns the shell's four views in sidebar order.
func DefaultRoutes() []Route {
	return []Route{
		{Label: "Dashboard", Path: "/"},
		{Label: "URL Scanner", Path: "/scanner"},
		{Label: "Detection History", Path: "/history"},
		{Label: "Analytics", Path: "/analytics"},
	}
}

// Validate rejects tables where two routes share a path, which is what
// guarantees that at most one entry is ever current.
func Validate(routes []Route) error {
	seen := make(map[string]string, len(routes))
	for _, r := range routes {
		if prev, ok := seen[r.Path]; ok {
			return fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateRoute, r.Path, prev, r.Label)
		}
		seen[r.Path] = r.Label
	}
	return nil
}

// Mark returns routes in order with Current set on the entry whose path
// equals current exactly.
func Mark(routes []Route, current string) []Entry {
	out := make([]Entry, len(routes))
	for i, r := range routes {
		out[i] = Entry{Route: r, Current: r.Path == current}
	}
	return out
}

// MenuState is the mobile-menu flag. Its owner passes it by value to the
// renderer and mutates it through the methods below.
type MenuState struct {
	Open bool `json:"open"`
}

// Toggle flips the menu and returns the new state.
func (m *MenuState) Toggle() bool {
	m.Open = !m.Open
	return m.Open
}

// Close closes the menu, e.g. after a link is followed.
func (m *MenuState) Close() { m.Open = false }
