package collview

import (
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/renderlist"
)

// ResolveInsertionPoint returns the index at which an entry inserted into the
// render list ends up right next to the entry of the data item refID: after it
// in ascending order, before it in descending order. The result is always
// within [0, Len()].
//
// If refID has no entry, for example because the filter rejects it, the data
// source is searched backwards from refID for the nearest item that has one.
// If there is none, or refID is unknown to the data source, the result is the
// slot before all items in ascending order and the end of the list in
// descending order.
func (s *Synchronizer) ResolveInsertionPoint(refID string) int {
	return s.insertionPoint(refID, nil)
}

// Like ResolveInsertionPoint, but for positioning the given item entry. The
// entry itself is never used as a reference, and in a grouped view, only
// entries in the same group are; the fallback is then the boundary of the
// group.
func (s *Synchronizer) insertionPoint(refID string, moving *renderlist.Entry) int {
	var group string
	inGroup := moving != nil && s.grouped()
	if inGroup {
		group = s.groupOf(moving.Data)
	}

	var (
		items  []datasource.Item
		pos    map[string]int
		loaded bool
	)
	// The walk visits each item of the data source at most once, so it ends
	// within len(items) steps even if the data is inconsistent.
	visited := make(map[string]bool)
	for id := refID; id != "" && !visited[id]; {
		visited[id] = true
		if moving == nil || id != moving.DataID {
			i := s.indexOf(id)
			if i != -1 && (!inGroup || s.groupOf(s.list.At(i).Data) == group) {
				return s.beside(i)
			}
		}
		if !loaded {
			items, pos = s.loadItems()
			loaded = true
		}
		p, ok := pos[id]
		if !ok || p == 0 {
			break
		}
		id = items[p-1].ID
	}
	return s.boundary(inGroup, group)
}

func (s *Synchronizer) loadItems() ([]datasource.Item, map[string]int) {
	if s.spec.Source == nil {
		return nil, nil
	}
	items := s.spec.Source.Items()
	pos := make(map[string]int, len(items))
	for i, it := range items {
		pos[it.ID] = i
	}
	return items, pos
}

func (s *Synchronizer) beside(i int) int {
	if s.spec.Direction == Descending {
		return i
	}
	return i + 1
}

func (s *Synchronizer) boundary(inGroup bool, group string) int {
	desc := s.spec.Direction == Descending
	if inGroup {
		if g := s.findGroup(group); g != -1 {
			if desc {
				return s.nextGroup(g + 1)
			}
			return g + 1
		}
	}
	if desc {
		return s.list.Len()
	}
	return s.firstIndex()
}

// Returns the index of the item entry with the given data ID, or -1.
func (s *Synchronizer) indexOf(id string) int {
	for i := 0; i < s.list.Len(); i++ {
		if e := s.list.At(i); e.Role == renderlist.Item && e.DataID == id {
			return i
		}
	}
	return -1
}

// Returns the index of the separator of the given group, or -1.
func (s *Synchronizer) findGroup(key string) int {
	for i := 0; i < s.list.Len(); i++ {
		if e := s.list.At(i); e.Role == renderlist.Group && e.GroupID == key {
			return i
		}
	}
	return -1
}

// Returns the index of the first group separator at or after from, or the
// length of the list if there is none.
func (s *Synchronizer) nextGroup(from int) int {
	for i := from; i < s.list.Len(); i++ {
		if s.list.At(i).Role == renderlist.Group {
			return i
		}
	}
	return s.list.Len()
}

func (s *Synchronizer) itemCount() int {
	n := 0
	for i := 0; i < s.list.Len(); i++ {
		if s.list.At(i).Role == renderlist.Item {
			n++
		}
	}
	return n
}
