// Package host drives a render engine from a terminal.
//
// A Host turns clock ticks, terminal signals, key presses and changes to the
// document store into events, feeds them to the engine one at a time from a
// single loop, and paints the visible text of the rendered tree after each
// batch of events.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/wraith13/never-stop-watch/pkg/errutil"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/logutil"
	"github.com/wraith13/never-stop-watch/pkg/model"
	"github.com/wraith13/never-stop-watch/pkg/render"
	"github.com/wraith13/never-stop-watch/pkg/store"
	"github.com/wraith13/never-stop-watch/pkg/sys"
)

var logger = logutil.GetLogger("[host] ")

// DefaultDocument is the name of the store document holding the model tree.
const DefaultDocument = "model"

// Spec specifies the configuration of a Host.
type Spec struct {
	// Engine renders the tree. Required.
	Engine *render.Engine
	// Root is the initial model tree. Required.
	Root *model.Node
	// Out receives the painted frames. If nil, nothing is painted.
	Out io.Writer
	// Keys is read one byte at a time for key presses. Optional.
	Keys io.Reader
	// Store is watched for changes to Document. Optional.
	Store    *store.Store
	Document string
	// Tick intervals; zero disables the corresponding event kind.
	FastTick, SlowTick time.Duration
	// WatchInterval is the polling interval of the store. Defaults to
	// SlowTick, or one second.
	WatchInterval time.Duration
	// MaxHeight crops painted frames when positive.
	MaxHeight int
	// Signals makes the host listen to SIGWINCH and interrupts.
	Signals bool
}

// Host serializes all access to an engine through one loop.
type Host struct {
	spec    Spec
	engine  *render.Engine
	lp      *loop
	painter *painter
	quit    chan struct{}
}

type keyEvent byte

type storageChanged uint64

type replaceRoot struct{ root *model.Node }

// Keys that stop the host. Ctrl-D and Ctrl-C arrive as bytes when the
// terminal does not turn them into signals.
var quitKeys = map[byte]bool{'q': true, 0x03: true, 0x04: true}

// Keys that raise an event kind other than operate.
var keyKinds = map[byte]event.Kind{
	'f': event.Focus,
	'b': event.Blur,
	'j': event.Scroll,
	'k': event.Scroll,
}

// New creates a Host.
func New(spec Spec) *Host {
	if spec.Document == "" {
		spec.Document = DefaultDocument
	}
	if spec.WatchInterval <= 0 {
		spec.WatchInterval = spec.SlowTick
		if spec.WatchInterval <= 0 {
			spec.WatchInterval = time.Second
		}
	}
	out := spec.Out
	if out == nil {
		out = io.Discard
	}
	h := &Host{
		spec:    spec,
		engine:  spec.Engine,
		lp:      newLoop(),
		painter: newPainter(out, spec.MaxHeight),
		quit:    make(chan struct{}),
	}
	h.lp.HandleCb(h.handle)
	h.lp.RedrawCb(h.redraw)
	return h
}

// Engine returns the engine driven by the host.
func (h *Host) Engine() *render.Engine { return h.engine }

// Send queues an event kind for dispatch. It reports false if the host has
// stopped.
func (h *Host) Send(kind event.Kind) bool { return h.lp.Input(h.quit, kind) }

// Replace queues a new model tree to render.
func (h *Host) Replace(root *model.Node) bool {
	return h.lp.Input(h.quit, replaceRoot{root})
}

// Stop makes Run return with err.
func (h *Host) Stop(err error) { h.lp.Return(err) }

// Run renders the initial tree and processes events until ctx is done, a
// quit key is pressed or an event fails. It can only be called once.
func (h *Host) Run(ctx context.Context) (err error) {
	defer close(h.quit)
	if _, err := h.engine.Render(h.spec.Root); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		err = errutil.Multi(err, h.painter.finish())
	}()
	spawn := func(f func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	spawn(func(ctx context.Context) {
		<-ctx.Done()
		h.lp.Return(nil)
	})
	if h.spec.FastTick > 0 {
		spawn(func(ctx context.Context) { h.tick(ctx, h.spec.FastTick, event.HighResolutionTimer) })
	}
	if h.spec.SlowTick > 0 {
		spawn(func(ctx context.Context) { h.tick(ctx, h.spec.SlowTick, event.Timer) })
	}
	if h.spec.Signals {
		spawn(h.signals)
	}
	if h.spec.Store != nil {
		spawn(h.watch)
	}
	if h.spec.Keys != nil {
		// Not waited for: a read from a terminal cannot be interrupted.
		go h.readKeys(h.spec.Keys)
	}

	return h.lp.Run()
}

func (h *Host) tick(ctx context.Context, d time.Duration, kind event.Kind) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.lp.Input(ctx.Done(), kind) {
				return
			}
		}
	}
}

func (h *Host) signals(ctx context.Context) {
	sigCh, stop := sys.NotifySignals(sys.SIGWINCH, os.Interrupt)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			logger.Println("signal:", sig)
			if sig == os.Interrupt {
				h.lp.Return(nil)
				return
			}
			h.lp.Redraw(true)
			if !h.lp.Input(ctx.Done(), event.Resize) {
				return
			}
		}
	}
}

func (h *Host) watch(ctx context.Context) {
	err := h.spec.Store.Watch(ctx, h.spec.WatchInterval, func(seq uint64) {
		h.lp.Input(ctx.Done(), storageChanged(seq))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Println("watch stopped:", err)
	}
}

func (h *Host) readKeys(r io.Reader) {
	var buf [1]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 && !h.lp.Input(h.quit, keyEvent(buf[0])) {
			return
		}
		if err != nil {
			if err != io.EOF {
				logger.Println("read keys:", err)
			}
			return
		}
	}
}

func (h *Host) handle(ev any) {
	var err error
	switch ev := ev.(type) {
	case event.Kind:
		err = h.engine.Dispatch(ev)
	case keyEvent:
		if quitKeys[byte(ev)] {
			h.lp.Return(nil)
			return
		}
		kind, ok := keyKinds[byte(ev)]
		if !ok {
			kind = event.Operate
		}
		err = h.engine.Dispatch(kind)
	case storageChanged:
		logger.Println("store changed, sequence", uint64(ev))
		if err = h.reload(); err == nil {
			err = h.engine.Dispatch(event.Storage)
		}
	case replaceRoot:
		_, err = h.engine.Render(ev.root)
	default:
		logger.Printf("unknown event %T", ev)
	}
	if err != nil {
		logger.Println("event failed:", err)
		h.lp.Return(err)
	}
}

// reload renders the model document of the store if there is one.
func (h *Host) reload() error {
	root := new(model.Node)
	err := h.spec.Store.Get(h.spec.Document, root)
	if errors.Is(err, store.ErrNoDocument) {
		return nil
	} else if err != nil {
		return fmt.Errorf("reload %s: %w", h.spec.Document, err)
	}
	_, err = h.engine.Render(root)
	return err
}

func (h *Host) redraw(flag redrawFlag) {
	if err := h.painter.paint(h.engine.Handle(), flag&fullRedraw != 0); err != nil {
		logger.Println("paint:", err)
	}
}
