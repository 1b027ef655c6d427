// Package server implements the subprogram that serves a collection to remote
// viewers.
//
// Commands read from stdin mutate the collection; serving stops when stdin is
// closed.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/sync/errgroup"
	"src.boundview.dev/pkg/logutil"
	"src.boundview.dev/pkg/prog"
	"src.boundview.dev/pkg/remote"
	"src.boundview.dev/pkg/script"
	"src.boundview.dev/pkg/store"
	"src.boundview.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[server] ")

// Program is the server subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.Serve == "" {
		return prog.ErrNotSuitable
	}
	if f.Connect != "" {
		return prog.BadUsage("-serve and -connect cannot be used together")
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed")
	}

	st, closeStore, err := store.OpenCollection(f.DB)
	if err != nil {
		return err
	}
	defer closeStore()

	ln, err := net.Listen("tcp", f.Serve)
	if err != nil {
		return err
	}
	fmt.Fprintln(fds[1], "listening on", ln.Addr())
	logger.Info("listening", "addr", ln.Addr())

	failed, err := serve(context.Background(), ln, st, fds[0], fds[2])
	if err != nil {
		return err
	}
	if failed > 0 {
		return prog.Exit(1)
	}
	return nil
}

// Serves st to connections accepted from ln, while running commands read from
// in. Returns when in is exhausted. Errors from commands are written to errOut,
// and their number is returned.
func serve(ctx context.Context, ln net.Listener, st storedefs.Store, in io.Reader, errOut io.Writer) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		ln.Close()
		return nil
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			logger.Info("accepted connection", "peer", conn.RemoteAddr())
			g.Go(func() error {
				err := remote.Serve(ctx, conn, st)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("connection ended", "peer", conn.RemoteAddr(), "err", err)
				}
				return nil
			})
		}
	})

	failed := 0
	g.Go(func() error {
		defer cancel()
		return script.Exec(in, script.Target{Store: st}, func(e *script.Error) {
			fmt.Fprintln(errOut, e)
			failed++
		})
	})

	err := g.Wait()
	return failed, err
}
