package rpc

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/wraith13/never-stop-watch/pkg/config"
	"github.com/wraith13/never-stop-watch/pkg/model"
	"github.com/wraith13/never-stop-watch/pkg/prog"
	"github.com/wraith13/never-stop-watch/pkg/render"
	"github.com/wraith13/never-stop-watch/pkg/widgets"
)

// Program is the JSON-RPC subprogram, run when -rpc is given.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if !f.RPC {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported with -rpc")
	}
	cfg, err := config.FromFlags(f)
	if err != nil {
		return err
	}
	reg, err := widgets.NewRegistry(cfg.Fallback)
	if err != nil {
		return err
	}
	engine := render.NewEngine(render.EngineSpec{Registry: reg})
	if f.Tree != "" {
		b, err := os.ReadFile(f.Tree)
		if err != nil {
			return err
		}
		root, err := model.Decode(b)
		if err != nil {
			return err
		}
		if _, err := engine.Render(root); err != nil {
			return err
		}
	}
	<-Serve(context.Background(), transport{fds[0], fds[1]}, NewServer(engine)).DisconnectNotify()
	return nil
}

// Serve serves s on rwc until the connection is closed.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, s *Server) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), s.Handler())
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
