package viewer

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/must"
	. "src.boundview.dev/pkg/prog/progtest"
	"src.boundview.dev/pkg/remote"
	"src.boundview.dev/pkg/testutil"
)

func TestProgram_Default(t *testing.T) {
	Test(t, Program,
		ThatBoundview().WritesStdout("(no items)\n"),
		ThatBoundview().WithStdin("add a\nadd b\nshow\nrm a\n").
			WritesStdout("a\nb\nb\n"),
		ThatBoundview().WithStdin("add a\nrm x\n").
			ExitsWith(1).
			WritesStdout("a\n").
			WritesStderr("line 2: no such item: x\n"),
	)
}

func TestProgram_Config(t *testing.T) {
	dir := testutil.TempDir(t)
	cfg := filepath.Join(dir, "view.yaml")
	must.WriteFile(cfg, testutil.Dedent(`
		sortingDirection: descending
		groupBy: category
		filter: item.done == false
		header: Tasks
		placeholder: Nothing to do
		item: '{{ .Fields.title | default .ID }}'
		group: '[{{ . | upper }}]'
		`))

	Test(t, Program,
		ThatBoundview("-config", cfg).WritesStdout("Tasks\nNothing to do\n"),
		ThatBoundview("-config", cfg).WithStdin(testutil.Dedent(`
			add a title=Write category=work done=false
			add b title=Shop category=home done=false
			add c title=Deploy category=work done=false
			add d title=Old category=work done=true
			click c
			click d
			`)).
			ExitsWith(1).
			WritesStdout(testutil.Dedent(`
				clicked c: Deploy
				Tasks
				[HOME]
				Shop
				[WORK]
				Deploy
				Write
				`)).
			WritesStderr("line 6: click: no visible entry for d\n"),
	)
}

func TestProgram_DB(t *testing.T) {
	db := filepath.Join(testutil.TempDir(t), "db")
	Test(t, Program,
		ThatBoundview("-db", db).WithStdin("add a\nadd b\nmove b -\n").
			WritesStdout("b\na\n"),
		ThatBoundview("-db", db).WritesStdout("b\na\n"),
	)
}

func TestProgram_Connect(t *testing.T) {
	src := must.OK1(datasource.NewCollection(
		datasource.Item{ID: "a"}, datasource.Item{ID: "b"}))
	ln := must.OK1(net.Listen("tcp", "127.0.0.1:0"))
	defer ln.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go remote.Serve(ctx, conn, src)
		}
	}()

	addr := ln.Addr().String()
	Test(t, Program,
		ThatBoundview("-connect", addr).WritesStdout("a\nb\n"),
		ThatBoundview("-connect", addr).WithStdin("add c\n").
			ExitsWith(1).
			WritesStdout("a\nb\n").
			WritesStderr("line 1: add: source is read-only\n"),
	)
}

func TestProgram_Errors(t *testing.T) {
	Test(t, Program,
		ThatBoundview("foo").
			ExitsWith(2).WritesStderrContaining("arguments are not allowed"),
		ThatBoundview("-db", "x", "-connect", "y").
			ExitsWith(2).WritesStderrContaining("cannot be used together"),
		ThatBoundview("-config", "/a/bad/path").
			ExitsWith(2).WritesStderrContaining("no such file or directory"),
	)
}
