// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/store/storedefs"
)

// TestStore runs the test suite against an empty Store.
func TestStore(t *testing.T, s storedefs.Store) {
	t.Helper()
	var events []string
	unsubscribe := s.Subscribe(datasource.Funcs{
		Added:   func(it datasource.Item, prev string) { events = append(events, "+"+it.ID+"@"+prev) },
		Changed: func(it datasource.Item, prev string) { events = append(events, "~"+it.ID+"@"+prev) },
		Moved:   func(it datasource.Item, prev string) { events = append(events, ">"+it.ID+"@"+prev) },
		Removed: func(it datasource.Item) { events = append(events, "-"+it.ID) },
	})
	defer unsubscribe()

	mustOK(t, s.Append(item("b", 2)))
	mustOK(t, s.Insert(item("a", 1), ""))
	mustOK(t, s.Insert(item("c", 3), "b"))
	mustOK(t, s.Set(item("b", 20)))
	mustOK(t, s.Move("a", "c"))
	mustOK(t, s.Remove("c"))
	pushed, err := s.Push(map[string]any{"n": 4})
	mustOK(t, err)

	wantEvents := []string{"+b@", "+a@", "+c@b", "~b@a", ">a@c", "-c", "+" + pushed.ID + "@a"}
	if diff := cmp.Diff(wantEvents, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	wantItems := []datasource.Item{item("b", 20), item("a", 1), pushed}
	if diff := cmp.Diff(wantItems, s.Items()); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}
	if got, ok := s.Get("a"); !ok || got.Fields["n"] != 1 {
		t.Errorf("Get(a) -> %v, %v", got, ok)
	}

	if err := s.Remove("c"); !errors.Is(err, datasource.ErrNoSuchItem) {
		t.Errorf("Remove(c) -> %v, want ErrNoSuchItem", err)
	}
	if err := s.Append(item("a", 0)); !errors.Is(err, datasource.ErrDuplicateID) {
		t.Errorf("Append(a) -> %v, want ErrDuplicateID", err)
	}
	if err := s.Move("a", "zz"); !errors.Is(err, datasource.ErrNoSuchItem) {
		t.Errorf("Move(a, zz) -> %v, want ErrNoSuchItem", err)
	}
}

func item(id string, n int) datasource.Item {
	return datasource.Item{ID: id, Fields: map[string]any{"n": n}}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
