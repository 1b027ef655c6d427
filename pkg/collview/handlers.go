package collview

import (
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/renderlist"
)

// HandleAdded adds an entry for a new data item, unless the filter rejects
// it. The placeholder is removed.
//
// In an ungrouped view, the entry is appended in ascending order and placed
// before all other items in descending order. In a grouped view, the group
// separator is created if needed (appended in ascending order, placed first in
// descending order), and the entry becomes the last item of its group in
// ascending order, or the first in descending order.
//
// If an entry for the item already exists, it is refreshed instead.
func (s *Synchronizer) HandleAdded(it datasource.Item) {
	if !s.accepts(it) {
		s.spec.Logger.Debug("item filtered out", "id", it.ID)
		return
	}
	if i := s.indexOf(it.ID); i != -1 {
		s.update(i, it)
		return
	}
	s.removePlaceholder()
	s.list.Insert(s.insertIndex(it), s.newItemEntry(it))
}

// HandleChanged refreshes the entry of a changed data item and positions it
// after its previous sibling. If the filter now rejects the item, its entry is
// removed; if the item had no entry, one is added.
func (s *Synchronizer) HandleChanged(it datasource.Item, prevID string) {
	i := s.indexOf(it.ID)
	if !s.accepts(it) {
		s.HandleRemoved(it)
		return
	}
	if i == -1 {
		s.HandleAdded(it)
	} else {
		s.update(i, it)
	}
	s.HandleMoved(it.ID, prevID)
}

// HandleMoved positions the entry of a data item next to the entry of its
// previous sibling, as determined by ResolveInsertionPoint. At most one move
// primitive is issued. It does nothing if the item has no entry.
func (s *Synchronizer) HandleMoved(id, prevID string) {
	from := s.indexOf(id)
	if from == -1 {
		s.spec.Logger.Debug("moved item not in view", "id", id)
		return
	}
	slot := s.insertionPoint(prevID, s.list.At(from))
	// The slot is counted with the entry still in the list.
	to := slot
	if from < slot {
		to = slot - 1
	}
	if from != to {
		s.list.Move(from, to)
	}
}

// HandleRemoved removes the entry of a data item, and adds the placeholder if
// no items are left. Removing an item without an entry does nothing else.
func (s *Synchronizer) HandleRemoved(it datasource.Item) {
	if i := s.indexOf(it.ID); i != -1 {
		s.list.Remove(i)
	} else {
		s.spec.Logger.Debug("removed item not in view", "id", it.ID)
	}
	if s.itemCount() == 0 {
		s.addPlaceholder()
	}
}

// Replaces the entry at i with a new one for it. If the group of the item has
// changed, the entry is moved to the new group instead.
func (s *Synchronizer) update(i int, it datasource.Item) {
	if s.grouped() && s.groupOf(s.list.At(i).Data) != s.groupOf(it) {
		s.list.Remove(i)
		s.list.Insert(s.insertIndex(it), s.newItemEntry(it))
		return
	}
	s.list.Replace(i, s.newItemEntry(it))
}

// Returns where a new entry for it is inserted, creating its group separator
// when necessary.
func (s *Synchronizer) insertIndex(it datasource.Item) int {
	desc := s.spec.Direction == Descending
	if !s.grouped() {
		if desc {
			return s.firstIndex()
		}
		return s.list.Len()
	}
	g := s.groupIndex(s.groupOf(it))
	if desc {
		return g + 1
	}
	return s.nextGroup(g + 1)
}

// Returns the index of the separator of a group, inserting it if it doesn't
// exist yet.
func (s *Synchronizer) groupIndex(key string) int {
	if g := s.findGroup(key); g != -1 {
		return g
	}
	g := s.list.Len()
	if s.spec.Direction == Descending {
		g = s.firstIndex()
	}
	s.list.Insert(g, &renderlist.Entry{
		Role: renderlist.Group, GroupID: key, Node: s.spec.Templates.Group(key)})
	return g
}

func (s *Synchronizer) newItemEntry(it datasource.Item) *renderlist.Entry {
	return &renderlist.Entry{
		Role: renderlist.Item, DataID: it.ID, Node: s.spec.Templates.Item(it), Data: it}
}

func (s *Synchronizer) accepts(it datasource.Item) bool {
	return s.spec.Filter == nil || s.spec.Filter(it)
}

func (s *Synchronizer) grouped() bool { return s.spec.GroupBy != nil }

func (s *Synchronizer) groupOf(it datasource.Item) string {
	return s.spec.GroupBy(it)
}
