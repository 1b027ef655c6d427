package remote

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"
	"src.boundview.dev/pkg/datasource"
)

// Client is a read-only mirror of a remote source. It implements
// datasource.Source.
type Client struct {
	coll *datasource.Collection
	conn *jsonrpc2.Conn
}

var _ datasource.Source = (*Client)(nil)

// Dial subscribes to the source served over stream. When it returns
// successfully, the Client contains all the items the source had when it
// received the subscription.
func Dial(ctx context.Context, stream io.ReadWriteCloser) (*Client, error) {
	coll, _ := datasource.NewCollection()
	c := &Client{coll: coll}
	c.conn = newConn(ctx, stream, routingHandler(map[string]method{
		MethodChildAdded:   c.childAdded,
		MethodChildChanged: c.childChanged,
		MethodChildMoved:   c.childMoved,
		MethodChildRemoved: c.childRemoved,
	}))
	if err := c.conn.Call(ctx, MethodSubscribe, nil, nil); err != nil {
		c.conn.Close()
		return nil, err
	}
	return c, nil
}

// Items implements datasource.Source.
func (c *Client) Items() []datasource.Item { return c.coll.Items() }

// Subscribe implements datasource.Source.
func (c *Client) Subscribe(l datasource.Listener) func() { return c.coll.Subscribe(l) }

// Get returns the mirrored item with the given ID.
func (c *Client) Get(id string) (datasource.Item, bool) { return c.coll.Get(id) }

// Close closes the connection. The mirrored items stay available.
func (c *Client) Close() error { return c.conn.Close() }

// DisconnectNotify returns a channel that is closed when the connection is
// closed.
func (c *Client) DisconnectNotify() <-chan struct{} { return c.conn.DisconnectNotify() }

// Handler implementations. These are all called synchronously, in the order
// the notifications arrive.

func (c *Client) childAdded(_ context.Context, _ *jsonrpc2.Conn, raw json.RawMessage) (any, error) {
	p, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	return nil, c.apply(MethodChildAdded, p, c.coll.Insert(p.Item, p.PrevID))
}

func (c *Client) childChanged(_ context.Context, _ *jsonrpc2.Conn, raw json.RawMessage) (any, error) {
	p, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	return nil, c.apply(MethodChildChanged, p, c.coll.Set(p.Item))
}

func (c *Client) childMoved(_ context.Context, _ *jsonrpc2.Conn, raw json.RawMessage) (any, error) {
	p, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	return nil, c.apply(MethodChildMoved, p, c.coll.Move(p.Item.ID, p.PrevID))
}

func (c *Client) childRemoved(_ context.Context, _ *jsonrpc2.Conn, raw json.RawMessage) (any, error) {
	p, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	return nil, c.apply(MethodChildRemoved, p, c.coll.Remove(p.Item.ID))
}

func (c *Client) apply(method string, p ChildParams, err error) error {
	if err != nil {
		logger.Warn("mirror out of sync", "method", method, "id", p.Item.ID, "err", err)
	}
	return err
}
