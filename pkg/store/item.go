package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	bolt "go.etcd.io/bbolt"
	"src.boundview.dev/pkg/datasource"
)

func putItem(b *bolt.Bucket, it datasource.Item) error {
	data, err := json.Marshal(it.Fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", it.ID, err)
	}
	return b.Put([]byte(it.ID), data)
}

func getItem(b *bolt.Bucket, id string) (datasource.Item, bool, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return datasource.Item{}, false, nil
	}
	fields, err := datasource.DecodeFields(v)
	if err != nil {
		return datasource.Item{}, false, fmt.Errorf("decode %s: %w", id, err)
	}
	return datasource.Item{ID: id, Fields: fields}, true, nil
}

func putOrder(b *bolt.Bucket, items []datasource.Item) error {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return b.Put([]byte(keyOrder), data)
}

// Loads all items in the stored order. Stored order entries without an item
// are dropped, and items missing from the stored order are appended in key
// order.
func loadItems(tx *bolt.Tx) ([]datasource.Item, error) {
	var order []string
	if v := tx.Bucket([]byte(bucketMeta)).Get([]byte(keyOrder)); v != nil {
		if err := json.Unmarshal(v, &order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
	}

	b := tx.Bucket([]byte(bucketItems))
	var items []datasource.Item
	seen := make(map[string]bool)
	for _, id := range order {
		if seen[id] {
			logger.Warn("duplicate ID in stored order", "id", id)
			continue
		}
		it, ok, err := getItem(b, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Warn("stored order refers to missing item", "id", id)
			continue
		}
		seen[id] = true
		items = append(items, it)
	}

	var orphans []string
	err := b.ForEach(func(k, _ []byte) error {
		if !seen[string(k)] {
			orphans = append(orphans, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range orphans {
		logger.Warn("item missing from stored order", "id", id)
		it, _, err := getItem(b, id)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func sameItem(a, b datasource.Item) bool {
	return reflect.DeepEqual(a.Fields, b.Fields)
}
