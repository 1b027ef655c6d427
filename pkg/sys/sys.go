// Package sys provide terminal utilities with the same API across OSes.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// DefaultWidth is the width assumed for outputs that are not terminals.
const DefaultWidth = 80

// WinSize queries the size of the terminal referenced by the given file. It
// returns -1, -1 if the size cannot be determined.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// Width returns the width of the terminal referenced by the given file, or
// DefaultWidth if it is not a terminal.
func Width(file *os.File) int {
	if !IsATTY(file.Fd()) {
		return DefaultWidth
	}
	if _, col := WinSize(file); col > 0 {
		return col
	}
	return DefaultWidth
}

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NotifyResize returns a channel that receives a value whenever the terminal
// is resized, and a function to stop the notifications. On systems without
// SIGWINCH the channel never receives.
func NotifyResize() (<-chan os.Signal, func()) { return notifyResize() }
