// Package progtest provides a framework for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strconv"
	"strings"
	"testing"

	"src.boundview.dev/pkg/must"
	"src.boundview.dev/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitStatus int
	out, err   output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + quote(o.content)
	}
	return quote(o.content)
}

// ThatBoundview returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "boundview -bad-flag" exits with 2
// would look like:
//
//	ThatBoundview("-bad-flag").ExitsWith(2)
func ThatBoundview(args ...string) Case {
	return Case{args: append([]string{"boundview"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatBoundview("-help").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit status.
func (c Case) ExitsWith(code int) Case {
	c.want.exitStatus = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitStatus != c.want.exitStatus {
				t.Errorf("got exit status %v, want %v", r.exitStatus, c.want.exitStatus)
			}
			if !matchOutput(r.out, c.want.out) {
				t.Errorf("got stdout %v, want %v", r.out, c.want.out)
			}
			if !matchOutput(r.err, c.want.err) {
				t.Errorf("got stderr %v, want %v", r.err, c.want.err)
			}
		})
	}
}

// Run runs a Program with the given arguments and stdin. It returns the exit
// status, the stdout and the stderr of the run.
func Run(p prog.Program, args []string, stdin string) (int, string, string) {
	r := run(p, append([]string{"boundview"}, args...), stdin)
	return r.exitStatus, r.out.content, r.err.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0 := feedInput(stdin)
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	outCh := captureOutput(r1)
	errCh := captureOutput(r2)

	exitStatus := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exitStatus, output{content: <-outCh}, output{content: <-errCh}}
}

func matchOutput(out, want output) bool {
	if want.partial {
		return strings.Contains(out.content, want.content)
	}
	return out.content == want.content
}

func quote(s string) string { return strconv.Quote(s) }

// Returns the read end of a pipe that reads the given input.
func feedInput(s string) *os.File {
	r, w := must.Pipe()
	go func() {
		io.WriteString(w, s)
		w.Close()
	}()
	return r
}

// Reads all data from r in the background, so that the program being tested
// is not blocked by a full pipe.
func captureOutput(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() { ch <- string(must.ReadAllAndClose(r)) }()
	return ch
}
