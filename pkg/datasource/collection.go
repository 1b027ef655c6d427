package datasource

import (
	"fmt"
	"sync"

	"github.com/segmentio/ksuid"
)

// Collection is an in-memory Source. It is safe for concurrent use.
//
// Notifications are delivered synchronously on the goroutine performing the
// mutation, after the mutation is visible through Items, and in the order the
// mutations happened. Listeners may read the Collection but must not mutate
// it.
type Collection struct {
	// Serializes mutations together with their notifications.
	dispatchMu sync.Mutex
	// Guards the fields below.
	mu        sync.RWMutex
	items     []Item
	listeners []*subscription
	commit    CommitHook
}

// CommitHook is called with the items before and after a mutation, before the
// mutation becomes visible. If it returns an error, the mutation is rolled back
// and the error is returned to the caller.
type CommitHook func(before, after []Item) error

type subscription struct {
	l      Listener
	active bool
}

// NewCollection creates a Collection with the given initial items.
func NewCollection(items ...Item) (*Collection, error) {
	c := &Collection{}
	for _, it := range items {
		if err := checkNew(c.items, it); err != nil {
			return nil, err
		}
		c.items = append(c.items, it)
	}
	return c, nil
}

func checkNew(items []Item, it Item) error {
	if it.ID == "" {
		return ErrEmptyID
	}
	if indexOf(items, it.ID) != -1 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
	}
	return nil
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func prevIDAt(items []Item, i int) string {
	if i == 0 {
		return ""
	}
	return items[i-1].ID
}

// SetCommitHook sets the hook called on each mutation. A nil hook disables it.
func (c *Collection) SetCommitHook(h CommitHook) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit = h
}

// Items returns a snapshot of all items, in order.
func (c *Collection) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

// IDs returns the IDs of all items, in order.
func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

// Len returns the number of items.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the item with the given ID.
func (c *Collection) Get(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOf(c.items, id); i != -1 {
		return c.items[i], true
	}
	return Item{}, false
}

// Subscribe implements Source.
func (c *Collection) Subscribe(l Listener) func() {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	items := c.Items()
	for i, it := range items {
		l.ChildAdded(it, prevIDAt(items, i))
	}
	sub := &subscription{l, true}
	c.mu.Lock()
	c.listeners = append(c.listeners, sub)
	c.mu.Unlock()
	return func() { c.unsubscribe(sub) }
}

func (c *Collection) unsubscribe(sub *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub.active = false
	for i, s := range c.listeners {
		if s == sub {
			c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Insert inserts an item after the item with ID prevID, or at the front if
// prevID is "".
func (c *Collection) Insert(it Item, prevID string) error {
	return c.mutate(func() (func(Listener), error) {
		if err := checkNew(c.items, it); err != nil {
			return nil, err
		}
		i, err := c.slotAfter(prevID)
		if err != nil {
			return nil, err
		}
		c.items = append(c.items, Item{})
		copy(c.items[i+1:], c.items[i:])
		c.items[i] = it
		return func(l Listener) { l.ChildAdded(it, prevID) }, nil
	})
}

// Append adds an item at the end.
func (c *Collection) Append(it Item) error {
	return c.mutate(func() (func(Listener), error) {
		if err := checkNew(c.items, it); err != nil {
			return nil, err
		}
		prevID := prevIDAt(c.items, len(c.items))
		c.items = append(c.items, it)
		return func(l Listener) { l.ChildAdded(it, prevID) }, nil
	})
}

// Push appends an item with the given fields and a newly generated ID. IDs
// generated by Push sort in creation order.
func (c *Collection) Push(fields map[string]any) (Item, error) {
	it := Item{ID: ksuid.New().String(), Fields: fields}
	return it, c.Append(it)
}

// Set replaces the item with the same ID, keeping its position.
func (c *Collection) Set(it Item) error {
	return c.mutate(func() (func(Listener), error) {
		i := indexOf(c.items, it.ID)
		if i == -1 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, it.ID)
		}
		c.items[i] = it
		prevID := prevIDAt(c.items, i)
		return func(l Listener) { l.ChildChanged(it, prevID) }, nil
	})
}

// Move moves the item with the given ID after the item with ID prevID, or to
// the front if prevID is "". Moving an item to where it already is does not
// notify listeners.
func (c *Collection) Move(id, prevID string) error {
	return c.mutate(func() (func(Listener), error) {
		from := indexOf(c.items, id)
		if from == -1 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, id)
		}
		if prevID == id {
			return nil, fmt.Errorf("cannot move %s after itself", id)
		}
		it := c.items[from]
		rest := append(c.items[:from:from], c.items[from+1:]...)
		to := 0
		if prevID != "" {
			p := indexOf(rest, prevID)
			if p == -1 {
				return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, prevID)
			}
			to = p + 1
		}
		items := make([]Item, 0, len(c.items))
		items = append(items, rest[:to]...)
		items = append(items, it)
		items = append(items, rest[to:]...)
		c.items = items
		if from == to {
			return nil, nil
		}
		return func(l Listener) { l.ChildMoved(it, prevID) }, nil
	})
}

// Remove removes the item with the given ID.
func (c *Collection) Remove(id string) error {
	return c.mutate(func() (func(Listener), error) {
		i := indexOf(c.items, id)
		if i == -1 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, id)
		}
		it := c.items[i]
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		return func(l Listener) { l.ChildRemoved(it) }, nil
	})
}

// Returns the index an item inserted after prevID would get. Must be called
// with mu held.
func (c *Collection) slotAfter(prevID string) (int, error) {
	if prevID == "" {
		return 0, nil
	}
	p := indexOf(c.items, prevID)
	if p == -1 {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchItem, prevID)
	}
	return p + 1, nil
}

// Runs f with mu held, then delivers the notification it returns, if any, to
// all listeners with only dispatchMu held.
func (c *Collection) mutate(f func() (func(Listener), error)) error {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	before := c.items
	c.items = append([]Item(nil), c.items...)
	notify, err := f()
	if err == nil && c.commit != nil {
		err = c.commit(before, c.items)
	}
	if err != nil {
		c.items = before
	}
	listeners := append([]*subscription(nil), c.listeners...)
	c.mu.Unlock()

	if err != nil || notify == nil {
		return err
	}
	for _, sub := range listeners {
		if c.isActive(sub) {
			notify(sub.l)
		}
	}
	return nil
}

func (c *Collection) isActive(sub *subscription) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sub.active
}
