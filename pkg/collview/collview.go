// Package collview keeps a render list synchronized with an ordered data
// source.
//
// A Synchronizer subscribes to a datasource.Source and mirrors its items into
// a RenderList, optionally filtered, grouped under group separators, preceded
// by a header and replaced by a placeholder when there are no items. Each
// notification of the source is translated into render list primitives as it
// arrives, so the render list is consistent between notifications.
//
// A Synchronizer is not safe for concurrent use. Notifications must be
// delivered from one goroutine at a time, which is the case for the sources
// in this module.
package collview

import (
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/logutil"
	"src.boundview.dev/pkg/renderlist"
)

var logger = logutil.GetLogger("[collview] ")

// Synchronizer maintains a render list from a data source.
type Synchronizer struct {
	spec        Spec
	list        RenderList
	header      bool
	placeholder bool
	unsubscribe func()
}

var _ datasource.Listener = (*Synchronizer)(nil)

// New creates a Synchronizer from the given spec and binds it to the data
// source.
//
// The header and placeholder, if configured, are inserted immediately. If the
// data source or the item template is missing, a warning is logged and the
// Synchronizer stays unbound: it never receives notifications, but its Handle
// methods can still be called directly.
func New(spec Spec) *Synchronizer {
	if spec.List == nil {
		spec.List = renderlist.New()
	}
	if spec.Logger == nil {
		spec.Logger = logger
	}
	if spec.OnChildClick == nil {
		spec.OnChildClick = func(ChildClick) {}
	}
	s := &Synchronizer{spec: spec, list: spec.List}
	s.addHeader()
	s.addPlaceholder()

	switch {
	case spec.Source == nil:
		spec.Logger.Warn("no data source set, binding disabled")
	case spec.Templates.Item == nil:
		spec.Logger.Warn("no item template set, binding disabled")
	case spec.GroupBy != nil && spec.Templates.Group == nil:
		spec.Logger.Warn("grouping without group template, binding disabled")
	default:
		s.unsubscribe = spec.Source.Subscribe(s)
	}
	return s
}

// List returns the render list.
func (s *Synchronizer) List() RenderList { return s.list }

// Bound reports whether the Synchronizer is subscribed to its data source.
func (s *Synchronizer) Bound() bool { return s.unsubscribe != nil }

// Close unsubscribes from the data source. The render list is left as is.
func (s *Synchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Click emits a ChildClick for the entry at index i, if it is an item entry.
// It is meant to be called by the rendering engine when an entry is clicked.
func (s *Synchronizer) Click(i int) {
	e := s.list.At(i)
	if e.Role != renderlist.Item {
		return
	}
	s.spec.OnChildClick(ChildClick{RenderNode: e.Node, DataObject: e.Data})
}

// ClickItem is like Click, but finds the entry by the ID of its data item. It
// reports whether the entry was found.
func (s *Synchronizer) ClickItem(id string) bool {
	i := s.indexOf(id)
	if i == -1 {
		return false
	}
	s.Click(i)
	return true
}

// ChildAdded implements datasource.Listener. The item is added with
// HandleAdded and then positioned after its previous sibling with HandleMoved.
func (s *Synchronizer) ChildAdded(it datasource.Item, prevID string) {
	s.HandleAdded(it)
	if s.indexOf(it.ID) != -1 {
		s.HandleMoved(it.ID, prevID)
	}
}

// ChildChanged implements datasource.Listener by calling HandleChanged.
func (s *Synchronizer) ChildChanged(it datasource.Item, prevID string) {
	s.HandleChanged(it, prevID)
}

// ChildMoved implements datasource.Listener by calling HandleMoved.
func (s *Synchronizer) ChildMoved(it datasource.Item, prevID string) {
	s.HandleMoved(it.ID, prevID)
}

// ChildRemoved implements datasource.Listener by calling HandleRemoved.
func (s *Synchronizer) ChildRemoved(it datasource.Item) {
	s.HandleRemoved(it)
}

func (s *Synchronizer) addHeader() {
	if s.spec.Templates.Header == nil || s.header {
		return
	}
	s.list.Insert(0, &renderlist.Entry{
		Role: renderlist.Header, Node: s.spec.Templates.Header()})
	s.header = true
}

func (s *Synchronizer) addPlaceholder() {
	if s.spec.Templates.Placeholder == nil || s.placeholder {
		return
	}
	s.list.Insert(s.headerLen(), &renderlist.Entry{
		Role: renderlist.Placeholder, Node: s.spec.Templates.Placeholder()})
	s.placeholder = true
}

func (s *Synchronizer) removePlaceholder() {
	if !s.placeholder {
		return
	}
	s.list.Remove(s.headerLen())
	s.placeholder = false
}

func (s *Synchronizer) headerLen() int {
	if s.header {
		return 1
	}
	return 0
}

// Index of the first slot after the header and the placeholder.
func (s *Synchronizer) firstIndex() int {
	if s.placeholder {
		return s.headerLen() + 1
	}
	return s.headerLen()
}
