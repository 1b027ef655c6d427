package buildinfo

import (
	"fmt"
	"runtime"
	"testing"

	. "src.boundview.dev/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	fullVersion := Version + VersionSuffix
	Test(t, Program,
		ThatBoundview("-version").WritesStdout(fullVersion+"\n"),
		ThatBoundview("-buildinfo").WritesStdout(
			fmt.Sprintf(
				"Version: %v\nGo version: %v\nReproducible build: %v\n",
				fullVersion, runtime.Version(), Reproducible)),
		ThatBoundview("-buildinfo", "-json").WritesStdout(
			fmt.Sprintf(
				`{"version":"%v","goversion":"%v","reproducible":%v}`+"\n",
				fullVersion, runtime.Version(), Reproducible)),

		ThatBoundview().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}
