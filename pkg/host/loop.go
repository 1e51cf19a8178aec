package host

import "sync"

// Ticks arrive at most every few milliseconds, so the input buffer only fills
// up when a pass is very slow.
const inputChSize = 128

// loop serializes input events and redraws of the host. Events are handled in
// the order they arrive; redraws are coalesced.
type loop struct {
	inputCh  chan any
	redrawCh chan struct{}
	returnCh chan error

	handle func(ev any)
	redraw func(flag redrawFlag)

	fullMu sync.Mutex
	full   bool
}

// redrawFlag is a bit set passed to the redraw callback.
type redrawFlag uint

const (
	// fullRedraw is set after Redraw(true), e.g. when the terminal was resized.
	fullRedraw redrawFlag = 1 << iota
	// finalRedraw is set on the last redraw before Run returns.
	finalRedraw
)

func newLoop() *loop {
	return &loop{
		inputCh:  make(chan any, inputChSize),
		redrawCh: make(chan struct{}, 1),
		returnCh: make(chan error, 1),
		handle:   func(any) {},
		redraw:   func(redrawFlag) {},
	}
}

// HandleCb sets the callback for input events. It must be called before Run.
func (lp *loop) HandleCb(cb func(ev any)) { lp.handle = cb }

// RedrawCb sets the redraw callback. It must be called before Run.
func (lp *loop) RedrawCb(cb func(flag redrawFlag)) { lp.redraw = cb }

// Redraw requests a redraw, a full one if full is true. It never blocks.
func (lp *loop) Redraw(full bool) {
	if full {
		lp.fullMu.Lock()
		lp.full = true
		lp.fullMu.Unlock()
	}
	select {
	case lp.redrawCh <- struct{}{}:
	default:
	}
}

// Input queues an event. It blocks while the buffer is full, and gives up once
// done is closed. It reports whether the event was queued.
func (lp *loop) Input(done <-chan struct{}, ev any) bool {
	select {
	case <-done:
		return false
	default:
	}
	select {
	case lp.inputCh <- ev:
		return true
	case <-done:
		return false
	}
}

// Return asks Run to return err. It never blocks; only the first call in an
// iteration of Run counts.
func (lp *loop) Return(err error) {
	select {
	case lp.returnCh <- err:
	default:
	}
}

// HasReturned reports whether Return has been called in the current iteration.
func (lp *loop) HasReturned() bool { return len(lp.returnCh) == 1 }

// Run redraws and handles events until Return is called. All callbacks run on
// the calling goroutine, one at a time.
func (lp *loop) Run() error {
	for {
		var flag redrawFlag
		if lp.takeFull() {
			flag |= fullRedraw
		}
		lp.redraw(flag)

		select {
		case ev := <-lp.inputCh:
			if done, err := lp.drain(ev); done {
				return err
			}
		case err := <-lp.returnCh:
			return lp.finish(err)
		case <-lp.redrawCh:
		}
	}
}

// drain handles ev and every event already queued after it, so that a burst
// of events costs a single redraw.
func (lp *loop) drain(ev any) (done bool, err error) {
	for {
		lp.handle(ev)
		select {
		case err := <-lp.returnCh:
			return true, lp.finish(err)
		default:
		}
		select {
		case ev = <-lp.inputCh:
		default:
			return false, nil
		}
	}
}

func (lp *loop) finish(err error) error {
	lp.redraw(finalRedraw)
	return err
}

func (lp *loop) takeFull() bool {
	lp.fullMu.Lock()
	defer lp.fullMu.Unlock()
	full := lp.full
	lp.full = false
	return full
}
