// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "src.boundview.dev/pkg/datasource"

// Store is an ordered collection that can be observed and mutated. It is
// satisfied by *datasource.Collection and by the persistent store.
type Store interface {
	datasource.Source
	Get(id string) (datasource.Item, bool)
	Append(it datasource.Item) error
	Insert(it datasource.Item, prevID string) error
	Push(fields map[string]any) (datasource.Item, error)
	Set(it datasource.Item) error
	Move(id, prevID string) error
	Remove(id string) error
}

var _ Store = (*datasource.Collection)(nil)
