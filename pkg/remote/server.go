package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"src.boundview.dev/pkg/datasource"
)

var errAlreadySubscribed = errors.New("already subscribed")

type server struct {
	src datasource.Source

	mu          sync.Mutex
	unsubscribe func()
}

// Serve serves src over stream until the connection is closed by the peer or
// ctx is done. It closes stream before returning.
//
// Changes of src are written to stream synchronously on the goroutine that
// delivers them, so a slow peer slows down mutations of src.
func Serve(ctx context.Context, stream io.ReadWriteCloser, src datasource.Source) error {
	s := &server{src: src}
	conn := newConn(ctx, stream, routingHandler(map[string]method{
		MethodSubscribe: s.subscribe,
	}))
	defer s.close()
	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	}
}

func (s *server) subscribe(ctx context.Context, conn *jsonrpc2.Conn, _ json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return nil, errAlreadySubscribed
	}
	notify := func(method string, params ChildParams) {
		// The subscription outlives the request, so don't use its context.
		err := conn.Notify(context.Background(), method, params)
		if err != nil {
			logger.Debug("dropping notification", "method", method, "id", params.Item.ID, "err", err)
		}
	}
	s.unsubscribe = s.src.Subscribe(datasource.Funcs{
		Added: func(it datasource.Item, prevID string) {
			notify(MethodChildAdded, ChildParams{it, prevID})
		},
		Changed: func(it datasource.Item, prevID string) {
			notify(MethodChildChanged, ChildParams{it, prevID})
		},
		Moved: func(it datasource.Item, prevID string) {
			notify(MethodChildMoved, ChildParams{it, prevID})
		},
		Removed: func(it datasource.Item) {
			notify(MethodChildRemoved, ChildParams{Item: it})
		},
	})
	logger.Info("peer subscribed")
	return nil, nil
}

func (s *server) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}
