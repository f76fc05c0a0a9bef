package navigation

import (
	"errors"
	"testing"
)

func TestMark_ExactlyOneCurrent(t *testing.T) {
	for _, r := range DefaultRoutes() {
		entries := Mark(DefaultRoutes(), r.Path)
		n := 0
		for _, e := range entries {
			if e.Current {
				n++
				if e.Path != r.Path {
					t.Errorf("entry %q marked current for path %q", e.Path, r.Path)
				}
			}
		}
		if n != 1 {
			t.Errorf("path %q: %d current entries, want 1", r.Path, n)
		}
	}
}

func TestMark_UnknownPathMarksNothing(t *testing.T) {
	for _, p := range []string{"/unknown", "/scanner/", "", "/History"} {
		for _, e := range Mark(DefaultRoutes(), p) {
			if e.Current {
				t.Errorf("path %q unexpectedly marked %q current", p, e.Path)
			}
		}
	}
}

func TestMark_PreservesOrder(t *testing.T) {
	entries := Mark(DefaultRoutes(), "/")
	want := []string{"Dashboard", "URL Scanner", "Detection History", "Analytics"}
	for i, e := range entries {
		if e.Label != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Label, want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultRoutes()); err != nil {
		t.Fatalf("default routes invalid: %v", err)
	}

	bad := append(DefaultRoutes(), Route{Label: "Scanner again", Path: "/scanner"})
	if err := Validate(bad); !errors.Is(err, ErrDuplicateRoute) {
		t.Errorf("expected ErrDuplicateRoute, got %v", err)
	}
}

func TestMenuState(t *testing.T) {
	var m MenuState
	if !m.Toggle() || !m.Open {
		t.Fatal("first toggle should open the menu")
	}
	if m.Toggle() {
		t.Fatal("second toggle should close the menu")
	}
	m.Toggle()
	m.Close()
	if m.Open {
		t.Error("Close should close the menu")
	}
}
