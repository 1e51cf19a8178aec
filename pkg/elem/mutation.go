package elem

// Op identifies the kind of a Mutation.
type Op uint8

// Mutation kinds.
const (
	// A child was inserted into Target.
	OpAppend Op = iota
	// A child was removed from Target.
	OpRemove
	// An attribute or the class list of Target changed.
	OpAttr
	// A style property of Target changed.
	OpStyle
	// The text of Target changed.
	OpText
)

var opNames = [...]string{"append", "remove", "attr", "style", "text"}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "unknown"
}

// Mutation describes one change to an element.
type Mutation struct {
	Op     Op
	Target *Element
	// Child and Index are set for OpAppend and OpRemove.
	Child *Element
	Index int
	// Name, Value and Removed are set for OpAttr, OpStyle and OpText.
	Name    string
	Value   string
	Removed bool
}

// Observe registers f to be called on every mutation of e or of any element
// below e at the time of the mutation. It returns a function that unregisters
// f.
func (e *Element) Observe(f func(Mutation)) (cancel func()) {
	e.observers = append(e.observers, f)
	i := len(e.observers) - 1
	return func() {
		if i < len(e.observers) {
			e.observers[i] = nil
		}
	}
}

// Mutations bubble to the observers of every ancestor, so an observer on a
// root element sees the whole tree.
func (e *Element) notify(m Mutation) {
	for p := e; p != nil; p = p.parent {
		for _, f := range p.observers {
			if f != nil {
				f(m)
			}
		}
	}
}

// Recorder collects mutations. It is meant for tests and for hosts that
// redraw only when something changed.
type Recorder struct {
	Mutations []Mutation
}

// Record returns a function suitable for Observe.
func (r *Recorder) Record() func(Mutation) {
	return func(m Mutation) { r.Mutations = append(r.Mutations, m) }
}

// Count returns the number of recorded mutations with the given op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, m := range r.Mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// CountChild returns the number of recorded mutations with the given op
// affecting the given child.
func (r *Recorder) CountChild(op Op, child *Element) int {
	n := 0
	for _, m := range r.Mutations {
		if m.Op == op && m.Child == child {
			n++
		}
	}
	return n
}

// Reset clears the recorded mutations.
func (r *Recorder) Reset() { r.Mutations = nil }
