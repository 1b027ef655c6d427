// Package remote mirrors a data source over a JSON-RPC 2.0 connection.
//
// The server side answers a single "subscribe" request. After receiving it,
// the server sends a child_added notification for each existing item, replies
// to the request, and then forwards every change of the source as a
// notification. The client side applies the notifications to a local
// collection, which can be bound to a view like any other source.
//
// Messages are framed with Content-Length headers, like the Language Server
// Protocol.
package remote

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[remote] ")

// Names of methods.
const (
	MethodSubscribe    = "subscribe"
	MethodChildAdded   = "child_added"
	MethodChildChanged = "child_changed"
	MethodChildMoved   = "child_moved"
	MethodChildRemoved = "child_removed"
)

// ChildParams is the params of child_* notifications. PrevID is omitted for
// child_removed.
type ChildParams struct {
	Item   datasource.Item `json:"item"`
	PrevID string          `json:"prevId,omitempty"`
}

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type method func(context.Context, *jsonrpc2.Conn, json.RawMessage) (any, error)

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	}).SuppressErrClosed()
}

func newConn(ctx context.Context, stream io.ReadWriteCloser, h jsonrpc2.Handler) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(stream, jsonrpc2.VSCodeObjectCodec{}), h)
}

func decodeChild(raw json.RawMessage) (ChildParams, error) {
	var p ChildParams
	if err := json.Unmarshal(raw, &p); err != nil || p.Item.ID == "" {
		return p, errInvalidParams
	}
	return p, nil
}
