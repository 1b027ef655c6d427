package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"src.boundview.dev/pkg/tt"
)

func TestTempDir(t *testing.T) {
	dir := TempDir(t)

	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		t.Errorf("TempDir returns %q which is not a directory", dir)
	}
	if resolved, _ := filepath.EvalSymlinks(dir); resolved != dir {
		t.Errorf("TempDir returns %q, which resolves to %q", dir, resolved)
	}
}

func TestSet(t *testing.T) {
	x := 1
	t.Run("set", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after subtest, want 1", x)
	}
}

func TestScaled(t *testing.T) {
	t.Setenv(TimeScaleEnv, "2")
	if got := Scaled(time.Second); got != 2*time.Second {
		t.Errorf("Scaled(1s) = %v, want 2s", got)
	}
	t.Setenv(TimeScaleEnv, "bad")
	if got := Scaled(time.Second); got != time.Second {
		t.Errorf("Scaled(1s) = %v with invalid scale, want 1s", got)
	}
}

func TestDedent(t *testing.T) {
	tt.Test(t, tt.Fn("Dedent", Dedent), tt.Table{
		tt.Args("\n  a\n  b\n").Rets("a\nb\n"),
		tt.Args("\n  a\n    b\n").Rets("a\n  b\n"),
		tt.Args("\n    a\n  b\n").Rets("  a\nb\n"),
		tt.Args("\n\ta\n  \n\tb").Rets("a\n\nb"),
		tt.Args("\n \ta\n  b\n").Rets(" \ta\n  b\n"),
		tt.Args("a\n  b").Rets("a\n  b"),
	})
}
