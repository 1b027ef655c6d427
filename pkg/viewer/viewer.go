// Package viewer implements the subprogram that binds a view to a collection
// and prints it.
//
// Commands read from stdin mutate the collection and interact with the view.
// The view is printed once more when stdin is exhausted.
package viewer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"src.boundview.dev/pkg/collview"
	"src.boundview.dev/pkg/config"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/logutil"
	"src.boundview.dev/pkg/prog"
	"src.boundview.dev/pkg/remote"
	"src.boundview.dev/pkg/renderlist"
	"src.boundview.dev/pkg/script"
	"src.boundview.dev/pkg/store"
	"src.boundview.dev/pkg/sys"
	"src.boundview.dev/pkg/termview"
)

var logger = logutil.GetLogger("[viewer] ")

// Program is the viewer subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed")
	}
	if f.DB != "" && f.Connect != "" {
		return prog.BadUsage("-db and -connect cannot be used together")
	}

	view := config.Default()
	if f.Config != "" {
		var err error
		view, err = config.Load(f.Config)
		if err != nil {
			return err
		}
	}
	spec, err := view.Spec()
	if err != nil {
		return err
	}

	var target script.Target
	var src datasource.Source
	if f.Connect != "" {
		client, err := dial(f.Connect)
		if err != nil {
			return err
		}
		defer client.Close()
		src = client
	} else {
		st, closeStore, err := store.OpenCollection(f.DB)
		if err != nil {
			return err
		}
		defer closeStore()
		src, target.Store = st, st
	}

	out := &printer{w: fds[1]}
	if sys.IsATTY(fds[1].Fd()) {
		out.opts = termview.Options{Width: sys.Width(fds[1]), Color: !f.NoColor}
	}

	spec.Source = lockedSource{src, &out.mu}
	spec.OnChildClick = out.click
	v := collview.New(spec)
	defer v.Close()
	out.list = v.List()

	target.Click = func(id string) bool {
		out.mu.Lock()
		defer out.mu.Unlock()
		return v.ClickItem(id)
	}
	target.Show = out.show

	if out.opts.Width > 0 {
		stop := redrawOnResize(fds[1], out)
		defer stop()
	}

	failed := 0
	err = script.Exec(fds[0], target, func(e *script.Error) {
		fmt.Fprintln(fds[2], e)
		failed++
	})
	if err != nil {
		return err
	}
	if err := out.show(); err != nil {
		return err
	}
	if failed > 0 {
		return prog.Exit(1)
	}
	return nil
}

func dial(addr string) (*remote.Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := remote.Dial(context.Background(), conn)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", addr, err)
	}
	go func() {
		<-client.DisconnectNotify()
		logger.Info("disconnected", "addr", addr)
	}()
	return client, nil
}

// Prints the view. The mutex also guards the render list, which is mutated
// when notifications are delivered.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	opts termview.Options
	list collview.RenderList
}

func (p *printer) show() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.showLocked()
}

func (p *printer) showLocked() error {
	entries := make([]*renderlist.Entry, p.list.Len())
	for i := range entries {
		entries[i] = p.list.At(i)
	}
	return termview.Render(p.w, entries, p.opts)
}

// Called with mu held, from a click command.
func (p *printer) click(c collview.ChildClick) {
	line := termview.Line(&renderlist.Entry{Role: renderlist.Item, Node: c.RenderNode}, p.opts)
	fmt.Fprintf(p.w, "clicked %s: %s\n", c.DataObject.ID, line)
}

func redrawOnResize(tty *os.File, p *printer) func() {
	resized, stop := sys.NotifyResize()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-resized:
				p.mu.Lock()
				p.opts.Width = sys.Width(tty)
				if err := p.showLocked(); err != nil {
					logger.Warn("redraw failed", "err", err)
				}
				p.mu.Unlock()
			case <-done:
				return
			}
		}
	}()
	return func() {
		stop()
		close(done)
	}
}

// Wraps a Source so that notifications are delivered with a mutex held.
type lockedSource struct {
	datasource.Source
	mu *sync.Mutex
}

func (s lockedSource) Subscribe(l datasource.Listener) func() {
	return s.Source.Subscribe(lockedListener{l, s.mu})
}

type lockedListener struct {
	l  datasource.Listener
	mu *sync.Mutex
}

func (l lockedListener) ChildAdded(it datasource.Item, prevID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.ChildAdded(it, prevID)
}

func (l lockedListener) ChildChanged(it datasource.Item, prevID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.ChildChanged(it, prevID)
}

func (l lockedListener) ChildMoved(it datasource.Item, prevID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.ChildMoved(it, prevID)
}

func (l lockedListener) ChildRemoved(it datasource.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.ChildRemoved(it)
}
