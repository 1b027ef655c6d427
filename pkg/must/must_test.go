package must

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOK(t *testing.T) {
	OK(nil)
	if got := OK1(42, nil); got != 42 {
		t.Errorf("OK1 -> %v, want 42", got)
	}
	if a, b := OK2("a", 1, nil); a != "a" || b != 1 {
		t.Errorf("OK2 -> %v, %v", a, b)
	}
	err := errors.New("boom")
	for name, f := range map[string]func(){
		"OK":  func() { OK(err) },
		"OK1": func() { OK1(42, err) },
		"OK2": func() { OK2("a", 1, err) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != err {
					t.Errorf("recovered %v, want %v", r, err)
				}
			}()
			f()
		})
	}
}

func TestPipeAndReadAll(t *testing.T) {
	r, w := Pipe()
	go func() {
		io.WriteString(w, "data")
		w.Close()
	}()
	if got := string(ReadAllAndClose(r)); got != "data" {
		t.Errorf("ReadAllAndClose -> %q, want %q", got, "data")
	}
}

func TestWriteFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "file")
	WriteFile(fname, "content")
	got, err := os.ReadFile(fname)
	if err != nil || string(got) != "content" {
		t.Errorf("file has %q, %v, want %q", got, err, "content")
	}
}
