package renderlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(l *List) []string {
	var s []string
	for _, e := range l.Entries() {
		s = append(s, e.DataID)
	}
	return s
}

func item(id string) *Entry { return &Entry{Role: Item, DataID: id} }

func listOf(idList ...string) *List {
	l := New()
	for _, id := range idList {
		l.Insert(l.Len(), item(id))
	}
	return l
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name string
		f    func(l *List)
		want []string
	}{
		{"insert at front", func(l *List) { l.Insert(0, item("x")) }, []string{"x", "a", "b", "c", "d"}},
		{"insert at end", func(l *List) { l.Insert(4, item("x")) }, []string{"a", "b", "c", "d", "x"}},
		{"replace", func(l *List) { l.Replace(1, item("x")) }, []string{"a", "x", "c", "d"}},
		{"remove first", func(l *List) { l.Remove(0) }, []string{"b", "c", "d"}},
		{"remove last", func(l *List) { l.Remove(3) }, []string{"a", "b", "c"}},
		{"move forward", func(l *List) { l.Move(0, 2) }, []string{"b", "c", "a", "d"}},
		{"move to end", func(l *List) { l.Move(1, 3) }, []string{"a", "c", "d", "b"}},
		{"move backward", func(l *List) { l.Move(3, 1) }, []string{"a", "d", "b", "c"}},
		{"move in place", func(l *List) { l.Move(2, 2) }, []string{"a", "b", "c", "d"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l := listOf("a", "b", "c", "d")
			test.f(l)
			if diff := cmp.Diff(test.want, ids(l)); diff != "" {
				t.Errorf("entries (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		f    func(l *List)
		want IndexError
	}{
		{"insert past end", func(l *List) { l.Insert(3, item("x")) }, IndexError{"insert", 3, 2}},
		{"insert negative", func(l *List) { l.Insert(-1, item("x")) }, IndexError{"insert", -1, 2}},
		{"replace at len", func(l *List) { l.Replace(2, item("x")) }, IndexError{"replace", 2, 2}},
		{"remove at len", func(l *List) { l.Remove(2) }, IndexError{"remove", 2, 2}},
		{"move from out of range", func(l *List) { l.Move(5, 0) }, IndexError{"move", 5, 2}},
		{"move to len", func(l *List) { l.Move(0, 2) }, IndexError{"move", 2, 2}},
		{"at negative", func(l *List) { l.At(-1) }, IndexError{"at", -1, 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(*IndexError)
				if !ok {
					t.Fatalf("recovered %v, want *IndexError", r)
				}
				if *err != test.want {
					t.Errorf("got %v, want %v", *err, test.want)
				}
			}()
			test.f(listOf("a", "b"))
		})
	}
}

func TestWatch(t *testing.T) {
	l := listOf("a", "b")
	var ops []string
	l.Watch(func(op Op) { ops = append(ops, op.String()) })

	l.Insert(0, &Entry{Role: Header})
	l.Move(1, 2)
	l.Replace(2, item("c"))
	l.Remove(1)

	want := []string{"insert 0 header", "move 1 -> 2", "replace 2 item(c)", "remove 1 item(b)"}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
}

func TestOpKindString(t *testing.T) {
	for kind, want := range map[OpKind]string{
		OpInsert: "insert", OpMove: "move", OpKind(-1): "OpKind(-1)", OpKind(9): "OpKind(9)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("OpKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
