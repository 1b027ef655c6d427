package termview

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.boundview.dev/pkg/renderlist"
	"src.boundview.dev/pkg/testutil"
	"src.boundview.dev/pkg/tt"
)

func entry(role renderlist.Role, node renderlist.Node) *renderlist.Entry {
	return &renderlist.Entry{Role: role, Node: node}
}

func TestRender(t *testing.T) {
	entries := []*renderlist.Entry{
		entry(renderlist.Header, "Tasks"),
		entry(renderlist.Group, "== work"),
		entry(renderlist.Item, "write report"),
		entry(renderlist.Item, 42),
		entry(renderlist.Item, nil),
	}
	var sb strings.Builder
	if err := Render(&sb, entries, Options{}); err != nil {
		t.Fatal(err)
	}
	want := testutil.Dedent(`
		Tasks
		== work
		write report
		42

		`)
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestLine(t *testing.T) {
	tt.Test(t, tt.Fn("Line", Line), tt.Table{
		tt.Args(entry(renderlist.Item, "abcdef"), Options{}).Rets("abcdef"),
		tt.Args(entry(renderlist.Item, "abcdef"), Options{Width: 3}).Rets("abc"),
		tt.Args(entry(renderlist.Item, "ab"), Options{Width: 3}).Rets("ab"),
		tt.Args(entry(renderlist.Placeholder, "(none)"), Options{Width: 80}).Rets("(none)"),
	})
}

func TestLine_ColorKeepsText(t *testing.T) {
	got := Line(entry(renderlist.Group, "work"), Options{Color: true})
	if !strings.Contains(got, "work") {
		t.Errorf("Line -> %q, want it to contain the text", got)
	}
}
