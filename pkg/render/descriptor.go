package render

import (
	"sort"

	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/keypath"
	"github.com/wraith13/never-stop-watch/pkg/model"
)

// Variant selects how the engine materializes nodes of a type.
type Variant uint8

// Descriptor variants.
const (
	// Made once, then updated in place only when the fingerprint changes.
	VariantStandard Variant = iota
	// Updated on every visit.
	VariantVolatile
	// Owns no element; children are adopted by the nearest owning ancestor.
	VariantContainer
)

var variantNames = [...]string{"standard", "volatile", "container"}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// UpdateFunc brings a handle up to date with a node. It receives the node's
// path, the current handle (nil if there is none yet), the node and the data
// read from the descriptor's dependency paths, in the order the paths were
// declared. It returns the handle to keep, which may be h itself, a different
// handle, or nil to keep h.
type UpdateFunc func(path keypath.Path, h *Handle, n *model.Node, external []any) (*Handle, error)

// Handler reacts to an event dispatched to the node at path. It typically
// mutates the model tree under root.
type Handler func(kind event.Kind, path keypath.Path, root *model.Node)

// Make constructs the initial handle of a Standard node. The zero value
// constructs nothing, in which case the update function receives a nil
// handle.
type Make struct {
	template *elem.Element
	factory  func() (*Handle, error)
}

// Template returns a Make that clones e for every new node.
func Template(e *elem.Element) Make { return Make{template: e} }

// Factory returns a Make that calls f for every new node.
func Factory(f func() (*Handle, error)) Make { return Make{factory: f} }

// IsZero reports whether m constructs nothing.
func (m Make) IsZero() bool { return m.template == nil && m.factory == nil }

func (m Make) build() (*Handle, error) {
	switch {
	case m.template != nil:
		return NewHandle(m.template.Clone()), nil
	case m.factory != nil:
		return m.factory()
	default:
		return nil, nil
	}
}

// Deps declares the paths whose data a descriptor reads in addition to its
// own node's data. The zero value declares no dependencies.
type Deps struct {
	static  []keypath.Path
	dynamic func(path keypath.Path, n *model.Node) []keypath.Path
}

// StaticDeps returns Deps with a fixed list of paths.
func StaticDeps(paths ...keypath.Path) Deps { return Deps{static: paths} }

// DynamicDeps returns Deps computed from the node's path and the node.
func DynamicDeps(f func(path keypath.Path, n *model.Node) []keypath.Path) Deps {
	return Deps{dynamic: f}
}

// Paths resolves the dependency paths for a node.
func (d Deps) Paths(path keypath.Path, n *model.Node) []keypath.Path {
	if d.dynamic != nil {
		return d.dynamic(path, n)
	}
	return d.static
}

// Descriptor specifies how nodes of one type are materialized and updated.
// Descriptors hold configuration only; all per-node state lives in the
// engine's cache. They are built once with the constructors and With methods
// and then registered; they must not be changed after registration.
type Descriptor struct {
	variant   Variant
	make      Make
	update    UpdateFunc
	deps      Deps
	policy    ChildPolicy
	container func(*Handle) *elem.Element
	handlers  map[event.Kind]Handler
}

// Standard returns a descriptor that makes a handle with mk the first time a
// path is rendered and calls update whenever the node's fingerprint changes.
// Either may be zero, but not both.
func Standard(mk Make, update UpdateFunc) *Descriptor {
	return &Descriptor{variant: VariantStandard, make: mk, update: update}
}

// Volatile returns a descriptor whose update function is called on every
// visit.
func Volatile(update UpdateFunc) *Descriptor {
	return &Descriptor{variant: VariantVolatile, update: update}
}

// Container returns a descriptor for grouping nodes that own no element.
func Container() *Descriptor {
	return &Descriptor{variant: VariantContainer}
}

// WithDeps sets the dependency paths and returns the receiver.
func (d *Descriptor) WithDeps(deps Deps) *Descriptor {
	d.deps = deps
	return d
}

// WithChildren sets the child attachment policy and returns the receiver.
func (d *Descriptor) WithChildren(p ChildPolicy) *Descriptor {
	d.policy = p
	return d
}

// WithContainer sets the function that picks the element children are
// attached to. By default it is the handle's primary element.
func (d *Descriptor) WithContainer(f func(*Handle) *elem.Element) *Descriptor {
	d.container = f
	return d
}

// On sets the handler for an event kind and returns the receiver.
func (d *Descriptor) On(kind event.Kind, h Handler) *Descriptor {
	if d.handlers == nil {
		d.handlers = make(map[event.Kind]Handler)
	}
	d.handlers[kind] = h
	return d
}

// Variant returns the variant of d.
func (d *Descriptor) Variant() Variant { return d.variant }

// Handler returns the handler for kind, or nil.
func (d *Descriptor) Handler(kind event.Kind) Handler { return d.handlers[kind] }

// Kinds returns the event kinds d handles, sorted.
func (d *Descriptor) Kinds() []event.Kind {
	kinds := make([]event.Kind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (d *Descriptor) containerOf(h *Handle) *elem.Element {
	if d.container != nil {
		return d.container(h)
	}
	return h.Primary()
}

func (d *Descriptor) valid() bool {
	switch d.variant {
	case VariantStandard:
		return !d.make.IsZero() || d.update != nil
	case VariantVolatile:
		return d.update != nil
	case VariantContainer:
		return true
	}
	return false
}
