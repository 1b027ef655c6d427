// Boundview keeps a view of an ordered collection in sync with the
// collection. The collection lives in memory, in a database file, or in
// another boundview process that serves it over the network; the view can be
// grouped, filtered and sorted in either direction.
package main

import (
	"os"

	"src.boundview.dev/pkg/buildinfo"
	"src.boundview.dev/pkg/prog"
	"src.boundview.dev/pkg/server"
	"src.boundview.dev/pkg/viewer"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, server.Program, viewer.Program)))
}
