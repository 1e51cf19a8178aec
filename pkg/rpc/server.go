// Package rpc exposes a render engine over JSON-RPC 2.0.
//
// Requests are served one at a time. After each pass the diagnostics of the
// pass are pushed to the client as window/logMessage notifications.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/wraith13/never-stop-watch/pkg/diag"
	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/logutil"
	"github.com/wraith13/never-stop-watch/pkg/model"
	"github.com/wraith13/never-stop-watch/pkg/render"
)

var logger = logutil.GetLogger("[rpc] ")

// Error codes in the range reserved for implementation-defined server errors.
const (
	CodeRenderFailed int64 = -32001
	CodeNotRendered  int64 = -32002
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Snapshot is the state of the element tree.
type Snapshot struct {
	// Dump is the outline of the tree as written by elem.Dump.
	Dump string `json:"dump"`
	// Lines is the visible text as returned by elem.Lines.
	Lines []string `json:"lines"`
}

// DispatchParams are the params of the dispatch method.
type DispatchParams struct {
	Kind string `json:"kind"`
}

// Diagnostic is the wire form of diag.Diagnostic.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server serves the methods of an engine.
type Server struct {
	mu     sync.Mutex
	engine *render.Engine
}

// NewServer returns a Server for engine.
func NewServer(engine *render.Engine) *Server {
	return &Server{engine: engine}
}

// Handler returns the JSON-RPC handler of the server.
func (s *Server) Handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"render":      s.render,
		"dispatch":    s.dispatch,
		"snapshot":    s.snapshot,
		"diagnostics": s.diagnostics,
		"types":       s.types,
		"stats":       s.stats,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

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
	})
}

// Handler implementations. The mutex serializes all access to the engine.

func (s *Server) render(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	root, err := model.Decode(rawParams)
	if err != nil || root == nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.engine.Render(root); err != nil {
		return nil, failed(err)
	}
	s.publish(ctx, conn)
	return s.takeSnapshot(), nil
}

func (s *Server) dispatch(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params DispatchParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	kind, err := event.Parse(params.Kind)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Dispatch(kind); err != nil {
		return nil, failed(err)
	}
	s.publish(ctx, conn)
	return s.takeSnapshot(), nil
}

func (s *Server) snapshot(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeSnapshot(), nil
}

func (s *Server) diagnostics(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.engine.Diagnostics()
	wire := make([]Diagnostic, len(ds))
	for i, d := range ds {
		wire[i] = Diagnostic{Kind: d.Kind.String(), Path: d.Path.String(), Type: d.Type, Message: d.Message}
	}
	return wire, nil
}

func (s *Server) types(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	return s.engine.Registry().Types(), nil
}

func (s *Server) stats(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Stats(), nil
}

func (s *Server) takeSnapshot() Snapshot {
	snap := Snapshot{Lines: []string{}}
	var sb strings.Builder
	if h := s.engine.Handle(); h != nil {
		for _, e := range h.Elements {
			sb.WriteString(elem.Dump(e))
			snap.Lines = append(snap.Lines, elem.Lines(e)...)
		}
	}
	snap.Dump = sb.String()
	return snap
}

// publish sends the diagnostics of the last pass as log messages.
func (s *Server) publish(ctx context.Context, conn jsonrpc2.JSONRPC2) {
	for _, d := range s.engine.Diagnostics() {
		err := conn.Notify(ctx, "window/logMessage",
			lsp.LogMessageParams{Type: messageType(d), Message: d.Error()})
		if err != nil {
			logger.Println("notify:", err)
			return
		}
	}
}

func messageType(d diag.Diagnostic) lsp.MessageType {
	if d.Kind == diag.OrphanedChild {
		return lsp.MTWarning
	}
	return lsp.MTError
}

func failed(err error) *jsonrpc2.Error {
	if errors.Is(err, render.ErrNotRendered) {
		return &jsonrpc2.Error{Code: CodeNotRendered, Message: err.Error()}
	}
	logger.Println("request failed:", err)
	return &jsonrpc2.Error{Code: CodeRenderFailed, Message: err.Error()}
}
