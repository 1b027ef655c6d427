// Package datasource defines ordered, observable collections of data items,
// and provides an in-memory implementation.
//
// A Source reports changes with four notifications modelled after realtime
// database child events. Each notification except ChildRemoved carries the ID
// of the item's previous sibling in the source's order, or "" if the item is
// first.
package datasource

import (
	"errors"
	"fmt"
)

// Errors returned by mutations of a Collection.
var (
	ErrEmptyID     = errors.New("item ID is empty")
	ErrDuplicateID = errors.New("item ID already exists")
	ErrNoSuchItem  = errors.New("no such item")
)

// Item is an entity of a data source.
type Item struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Get returns the value of a field.
func (it Item) Get(name string) (any, bool) {
	v, ok := it.Fields[name]
	return v, ok
}

func (it Item) String() string {
	return fmt.Sprintf("%s%v", it.ID, it.Fields)
}

// Listener receives notifications of a Source.
type Listener interface {
	ChildAdded(it Item, prevID string)
	ChildChanged(it Item, prevID string)
	ChildMoved(it Item, prevID string)
	ChildRemoved(it Item)
}

// Source is an ordered collection of items that can be observed.
type Source interface {
	// Items returns a snapshot of all items, in order.
	Items() []Item
	// Subscribe registers a Listener. Existing items are reported to the
	// Listener with ChildAdded, in order, before Subscribe returns. The
	// returned function removes the subscription.
	Subscribe(l Listener) (unsubscribe func())
}

// Funcs implements Listener with optional functions. Nil fields are ignored.
type Funcs struct {
	Added   func(it Item, prevID string)
	Changed func(it Item, prevID string)
	Moved   func(it Item, prevID string)
	Removed func(it Item)
}

func (f Funcs) ChildAdded(it Item, prevID string) {
	if f.Added != nil {
		f.Added(it, prevID)
	}
}

func (f Funcs) ChildChanged(it Item, prevID string) {
	if f.Changed != nil {
		f.Changed(it, prevID)
	}
}

func (f Funcs) ChildMoved(it Item, prevID string) {
	if f.Moved != nil {
		f.Moved(it, prevID)
	}
}

func (f Funcs) ChildRemoved(it Item) {
	if f.Removed != nil {
		f.Removed(it)
	}
}
