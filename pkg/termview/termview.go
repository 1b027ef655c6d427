// Package termview draws render lists on a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"src.boundview.dev/pkg/renderlist"
)

// Options controls how entries are drawn.
type Options struct {
	// Maximum width of a line. Lines are cropped to this width if positive.
	Width int
	// Whether to style entries according to their roles.
	Color bool
}

var styles = map[renderlist.Role]lipgloss.Style{
	renderlist.Header:      lipgloss.NewStyle().Bold(true),
	renderlist.Placeholder: lipgloss.NewStyle().Faint(true).Italic(true),
	renderlist.Group:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
}

// Render writes each entry on its own line.
func Render(w io.Writer, entries []*renderlist.Entry, opts Options) error {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(Line(e, opts))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Line returns the line for a single entry, without a trailing newline.
func Line(e *renderlist.Entry, opts Options) string {
	text := text(e.Node)
	style := lipgloss.NewStyle()
	if opts.Color {
		if s, ok := styles[e.Role]; ok {
			style = s
		}
	}
	if opts.Width > 0 {
		style = style.MaxWidth(opts.Width)
	}
	return style.Render(text)
}

func text(n renderlist.Node) string {
	switch n := n.(type) {
	case nil:
		return ""
	case string:
		return n
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprint(n)
	}
}
