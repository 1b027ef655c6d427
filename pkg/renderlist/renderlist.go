// Package renderlist provides the ordered list of entries drawn by a view.
//
// A List only supports four primitive mutations: Insert, Replace, Remove and
// Move. Passing an index outside of the valid range is a programming error and
// panics with an *IndexError.
package renderlist

import (
	"fmt"

	"src.boundview.dev/pkg/datasource"
)

// Role identifies what an Entry stands for.
type Role int

// Possible values for Role.
const (
	Item Role = iota
	Header
	Placeholder
	Group
)

var roleNames = [...]string{Item: "item", Header: "header", Placeholder: "placeholder", Group: "group"}

func (r Role) String() string {
	if 0 <= r && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Node is a renderable node produced by a template. It is opaque to this
// package.
type Node any

// Entry is an element of a List.
type Entry struct {
	Role Role
	// ID of the data item, for entries with the Item role.
	DataID string
	// Group key, for entries with the Group role.
	GroupID string
	Node    Node
	// The data item the entry was rendered from, for entries with the Item
	// role.
	Data datasource.Item
}

func (e *Entry) String() string {
	switch e.Role {
	case Item:
		return "item(" + e.DataID + ")"
	case Group:
		return "group(" + e.GroupID + ")"
	default:
		return e.Role.String()
	}
}

// OpKind identifies a primitive mutation.
type OpKind int

// Possible values for OpKind.
const (
	OpInsert OpKind = iota
	OpReplace
	OpRemove
	OpMove
)

var opNames = [...]string{OpInsert: "insert", OpReplace: "replace", OpRemove: "remove", OpMove: "move"}

func (k OpKind) String() string {
	if 0 <= k && int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op describes a primitive mutation that has been applied to a List.
type Op struct {
	Kind  OpKind
	Index int
	// Destination index, for OpMove.
	To    int
	Entry *Entry
}

func (op Op) String() string {
	if op.Kind == OpMove {
		return fmt.Sprintf("move %d -> %d", op.Index, op.To)
	}
	return fmt.Sprintf("%s %d %v", op.Kind, op.Index, op.Entry)
}

// IndexError is the panic value used when an index is out of range.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("renderlist: %s: index %d out of range with length %d", e.Op, e.Index, e.Len)
}

// List is an ordered list of entries. The zero value is an empty list ready
// to use. It is not safe for concurrent use.
type List struct {
	entries  []*Entry
	watchers []func(Op)
}

// New creates an empty List.
func New() *List { return &List{} }

// Watch registers a function that is called after each primitive mutation.
func (l *List) Watch(f func(Op)) { l.watchers = append(l.watchers, f) }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// At returns the entry at index i.
func (l *List) At(i int) *Entry {
	l.check("at", i, len(l.entries))
	return l.entries[i]
}

// Entries returns a copy of all entries, in order.
func (l *List) Entries() []*Entry {
	return append([]*Entry(nil), l.entries...)
}

// Insert inserts an entry at index i, which must be within [0, Len()].
func (l *List) Insert(i int, e *Entry) {
	l.check("insert", i, len(l.entries)+1)
	l.entries = append(l.entries, nil)
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
	l.notify(Op{Kind: OpInsert, Index: i, Entry: e})
}

// Replace replaces the entry at index i.
func (l *List) Replace(i int, e *Entry) {
	l.check("replace", i, len(l.entries))
	l.entries[i] = e
	l.notify(Op{Kind: OpReplace, Index: i, Entry: e})
}

// Remove removes the entry at index i.
func (l *List) Remove(i int) {
	l.check("remove", i, len(l.entries))
	e := l.entries[i]
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
	l.notify(Op{Kind: OpRemove, Index: i, Entry: e})
}

// Move moves the entry at index from so that it ends up at index to. Both
// indices must be within [0, Len()).
func (l *List) Move(from, to int) {
	l.check("move", from, len(l.entries))
	l.check("move", to, len(l.entries))
	e := l.entries[from]
	if from < to {
		copy(l.entries[from:to], l.entries[from+1:to+1])
	} else {
		copy(l.entries[to+1:from+1], l.entries[to:from])
	}
	l.entries[to] = e
	l.notify(Op{Kind: OpMove, Index: from, To: to, Entry: e})
}

func (l *List) check(op string, i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Op: op, Index: i, Len: len(l.entries)})
	}
}

func (l *List) notify(op Op) {
	for _, f := range l.watchers {
		f(op)
	}
}
