package collview

import (
	"fmt"

	"github.com/charmbracelet/log"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/renderlist"
)

// Direction is the sorting direction of a view. It applies to both items and
// group separators.
type Direction int

// Possible values for Direction.
const (
	// Items appear in the order of the data source; new groups are appended.
	Ascending Direction = iota
	// Items appear in reverse order of the data source; new groups are
	// prepended.
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection parses the name of a Direction. The empty string is parsed
// as Ascending.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "ascending":
		return Ascending, nil
	case "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sorting direction %q", s)
}

// Templates builds render nodes. The functions must not have side effects
// other than producing a node.
type Templates struct {
	// Builds the node for a data item. Required.
	Item func(it datasource.Item) renderlist.Node
	// Builds the header node. If nil, there is no header.
	Header func() renderlist.Node
	// Builds the node shown when there are no items. If nil, there is no
	// placeholder.
	Placeholder func() renderlist.Node
	// Builds the separator node of a group. Required when grouping.
	Group func(key string) renderlist.Node
}

// ChildClick is emitted when the entry of a data item is clicked.
type ChildClick struct {
	RenderNode renderlist.Node
	DataObject datasource.Item
}

// RenderList is the ordered list of entries maintained by a Synchronizer.
// Implementations must panic when given an index out of range; this is
// satisfied by *renderlist.List.
type RenderList interface {
	Len() int
	At(i int) *renderlist.Entry
	Insert(i int, e *renderlist.Entry)
	Replace(i int, e *renderlist.Entry)
	Remove(i int)
	Move(from, to int)
}

// Spec specifies the configuration of a Synchronizer.
type Spec struct {
	// The data source to bind. Required.
	Source datasource.Source
	// Sorting direction.
	Direction Direction
	// Extracts the group key of an item. If nil, items are not grouped.
	GroupBy func(it datasource.Item) string
	// Decides whether an item is shown. If nil, all items are shown.
	Filter func(it datasource.Item) bool
	// Templates for render nodes.
	Templates Templates
	// Called when the entry of an item is clicked.
	OnChildClick func(ChildClick)
	// The render list to maintain. If nil, a new *renderlist.List is used.
	List RenderList
	// Where diagnostics are written. If nil, a logger from logutil is used.
	Logger *log.Logger
}

// GroupByField returns a group key function that uses the value of a field,
// formatted with fmt.Sprint. Items without the field are grouped under "".
func GroupByField(name string) func(datasource.Item) string {
	return func(it datasource.Item) string {
		if v, ok := it.Get(name); ok {
			return fmt.Sprint(v)
		}
		return ""
	}
}
