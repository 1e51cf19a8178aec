package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wraith13/never-stop-watch/pkg/config"
	"github.com/wraith13/never-stop-watch/pkg/diag"
	"github.com/wraith13/never-stop-watch/pkg/errutil"
	"github.com/wraith13/never-stop-watch/pkg/logutil"
	"github.com/wraith13/never-stop-watch/pkg/model"
	"github.com/wraith13/never-stop-watch/pkg/prog"
	"github.com/wraith13/never-stop-watch/pkg/render"
	"github.com/wraith13/never-stop-watch/pkg/store"
	"github.com/wraith13/never-stop-watch/pkg/sys"
	"github.com/wraith13/never-stop-watch/pkg/widgets"
)

// Program runs the host on the terminal. It is the last resort of the
// composite program and never returns prog.ErrNotSuitable.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) (err error) {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}
	cfg, err := config.FromFlags(f)
	if err != nil {
		return err
	}
	if f.Log == "" && cfg.Log != "" {
		if err := logutil.SetOutputFile(cfg.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	reg, err := widgets.NewRegistry(cfg.Fallback)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0700); err != nil {
		return err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { err = errutil.Multi(err, st.Close()) }()

	root, err := LoadTree(f.Tree, st, DefaultDocument)
	if err != nil {
		return err
	}
	if cfg.Theme != "" {
		root.Data = withTheme(root.Data, cfg.Theme)
	}

	spec := Spec{
		Engine: render.NewEngine(render.EngineSpec{
			Registry: reg,
			Reporter: diag.LogReporter(logger),
		}),
		Root:      root,
		Out:       fds[1],
		Store:     st,
		FastTick:  cfg.FastTick,
		SlowTick:  cfg.SlowTick,
		MaxHeight: cfg.MaxHeight,
		Signals:   true,
	}
	if sys.IsATTY(fds[0].Fd()) {
		restore, rawErr := makeRaw(fds[0])
		if rawErr != nil {
			logger.Println("cannot enter raw mode:", rawErr)
		} else {
			defer func() { err = errutil.Multi(err, restore()) }()
			spec.Keys = fds[0]
		}
	}
	return New(spec).Run(context.Background())
}

// LoadTree returns the model tree to render first: the JSON file at path if
// path is not empty, the named document of st if there is one, or the sample
// tree of the widgets package.
func LoadTree(path string, st *store.Store, document string) (*model.Node, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		root, err := model.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if root == nil {
			return nil, fmt.Errorf("%s: empty tree", path)
		}
		return root, nil
	}
	if st != nil {
		root := new(model.Node)
		err := st.Get(document, root)
		if err == nil {
			return root, nil
		} else if !errors.Is(err, store.ErrNoDocument) {
			return nil, err
		}
	}
	return widgets.Sample(), nil
}

func withTheme(data any, theme string) map[string]any {
	m := map[string]any{}
	if old, ok := data.(map[string]any); ok {
		for k, v := range old {
			m[k] = v
		}
	}
	m["theme"] = theme
	return m
}
