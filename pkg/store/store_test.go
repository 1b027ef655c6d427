package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	bolt "go.etcd.io/bbolt"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/filter"
	"src.boundview.dev/pkg/store/storetest"
	"src.boundview.dev/pkg/testutil"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(testutil.TempDir(t), "db")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return st, path
}

func reopen(t *testing.T, st *Store, path string) *Store {
	t.Helper()
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore(t *testing.T) {
	st, _ := openTemp(t)
	defer st.Close()
	storetest.TestStore(t, st)
}

func TestCollection(t *testing.T) {
	c, _ := datasource.NewCollection()
	storetest.TestStore(t, c)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	st, path := openTemp(t)
	st.Append(datasource.Item{ID: "a", Fields: map[string]any{"name": "x"}})
	st.Append(datasource.Item{ID: "b"})
	st.Insert(datasource.Item{ID: "c", Fields: map[string]any{"n": 1}}, "")
	st.Set(datasource.Item{ID: "a", Fields: map[string]any{"name": "y"}})
	st.Move("b", "")
	st.Remove("c")

	st = reopen(t, st, path)
	want := []datasource.Item{
		{ID: "b"},
		{ID: "a", Fields: map[string]any{"name": "y"}},
	}
	if diff := cmp.Diff(want, st.Items()); diff != "" {
		t.Errorf("items after reopen (-want +got):\n%s", diff)
	}
}

func TestStore_KeepsFieldTypesAcrossReopen(t *testing.T) {
	st, path := openTemp(t)
	orig := datasource.Item{ID: "a", Fields: map[string]any{
		"n": 3, "f": 2.5, "neg": -7, "ok": true, "s": "3",
		"list": []any{1, "x"}, "obj": map[string]any{"k": 4},
	}}
	if err := st.Append(orig); err != nil {
		t.Fatal(err)
	}

	st = reopen(t, st, path)
	got, ok := st.Get("a")
	if !ok {
		t.Fatal("item a missing after reopen")
	}
	if !cmp.Equal(orig, got) {
		t.Errorf("item after reopen (-want +got):\n%s", cmp.Diff(orig, got))
	}
	// int + int has a CEL overload, double + int does not.
	accept, err := filter.Compile("item.n + 1 > 2")
	if err != nil {
		t.Fatal(err)
	}
	if !accept(got) {
		t.Errorf("filter rejects item after reopen")
	}
}

func TestStore_RepairsStoredOrder(t *testing.T) {
	st, path := openTemp(t)
	st.Append(datasource.Item{ID: "b"})
	st.Append(datasource.Item{ID: "d"})
	err := st.db.Update(func(tx *bolt.Tx) error {
		items := tx.Bucket([]byte(bucketItems))
		items.Put([]byte("c"), []byte("null"))
		items.Put([]byte("a"), []byte(`{"n":1}`))
		return tx.Bucket([]byte(bucketMeta)).Put([]byte(keyOrder), []byte(`["d","ghost","d","b"]`))
	})
	if err != nil {
		t.Fatal(err)
	}

	st = reopen(t, st, path)
	want := []string{"d", "b", "a", "c"}
	if diff := cmp.Diff(want, st.IDs()); diff != "" {
		t.Errorf("IDs after repair (-want +got):\n%s", diff)
	}
	if it, _ := st.Get("a"); it.Fields["n"] != 1.0 {
		t.Errorf("got item %v, want n=1", it)
	}
}

func TestStore_FailedWriteHasNoEffect(t *testing.T) {
	st, _ := openTemp(t)
	st.Append(datasource.Item{ID: "a"})
	var events int
	st.Subscribe(datasource.Funcs{Added: func(datasource.Item, string) { events++ }})
	events = 0
	st.Close()

	err := st.Append(datasource.Item{ID: "b"})
	if !errors.Is(err, bolt.ErrDatabaseNotOpen) {
		t.Errorf("got err %v, want ErrDatabaseNotOpen", err)
	}
	if diff := cmp.Diff([]string{"a"}, st.IDs()); diff != "" {
		t.Errorf("IDs (-want +got):\n%s", diff)
	}
	if events != 0 {
		t.Errorf("got %d notifications, want none", events)
	}
}

func TestOpen_BadOrder(t *testing.T) {
	st, path := openTemp(t)
	st.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMeta)).Put([]byte(keyOrder), []byte("{"))
	})
	st.Close()
	if _, err := Open(path); err == nil {
		t.Errorf("Open succeeded with corrupt order")
	}
}

func TestOpenCollection(t *testing.T) {
	c, closeFn, err := OpenCollection("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*datasource.Collection); !ok {
		t.Errorf("OpenCollection(\"\") -> %T, want *datasource.Collection", c)
	}
	closeFn()

	path := filepath.Join(testutil.TempDir(t), "db")
	c, closeFn, err = OpenCollection(path)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := c.(*Store); !ok {
		t.Errorf("OpenCollection(path) -> %T, want *Store", c)
	}
}
