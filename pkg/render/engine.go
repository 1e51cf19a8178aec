// Package render reconciles model trees with a retained element tree.
//
// An Engine renders a model tree by visiting it depth first and keeping a
// cache entry for every live path. A node is made, updated or reused
// depending on its descriptor variant and on whether its fingerprint (type,
// data and the data of its dependency paths) changed since the last pass.
// Elements of nodes that disappear are detached from the tree after the
// pass. Rendering a tree identical to the previous one does nothing.
package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/wraith13/never-stop-watch/pkg/diag"
	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/keypath"
	"github.com/wraith13/never-stop-watch/pkg/logutil"
	"github.com/wraith13/never-stop-watch/pkg/model"
)

var logger = logutil.GetLogger("[render] ")

// ErrNotRendered is returned by Dispatch before the first Render.
var ErrNotRendered = errors.New("nothing has been rendered")

// EngineSpec specifies the configuration of an Engine.
type EngineSpec struct {
	// Registry supplies the descriptors. Required.
	Registry *Registry
	// Reporter receives diagnostics. If nil, they are logged.
	Reporter diag.Reporter
}

// Stats counts the work done by an engine since it was created.
type Stats struct {
	// Passes is the number of render passes that visited the tree.
	Passes int
	// Skipped is the number of Render calls that found the tree unchanged.
	Skipped int
	// Makes, Updates and Reuses count descriptor work per node.
	Makes   int
	Updates int
	Reuses  int
	// Detaches counts elements detached by eviction.
	Detaches int
}

// Engine renders model trees. It is not safe for concurrent use; callers
// must serialize calls to Render and Dispatch.
type Engine struct {
	registry *Registry
	reporter diag.Reporter

	cache  map[string]*entry
	active map[string]bool
	index  event.Index
	diags  []diag.Diagnostic

	root       *model.Node
	rootHandle *Handle
	prev       string
	stats      Stats
}

type entry struct {
	typ       string
	container bool
	handle    *Handle
	fp        model.Fingerprint
	childKeys []string
}

// NewEngine creates a new Engine from an EngineSpec.
func NewEngine(spec EngineSpec) *Engine {
	r := spec.Reporter
	if r == nil {
		r = diag.LogReporter(logger)
	}
	return &Engine{
		registry: spec.Registry,
		reporter: r,
		cache:    make(map[string]*entry),
	}
}

// Render brings the element tree up to date with root and returns the root
// handle. If root serializes identically to the tree of the previous
// successful call, Render returns the previous root handle without visiting
// the tree.
//
// Problems in the tree are reported as diagnostics and do not stop the pass.
// Errors from descriptors are returned; the next call then renders again
// regardless of the tree.
func (e *Engine) Render(root *model.Node) (*Handle, error) {
	canon, err := model.Canonical(root)
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}
	e.root = root
	if e.prev != "" && string(canon) == e.prev {
		e.stats.Skipped++
		return e.rootHandle, nil
	}

	old := maps.Clone(e.cache)
	e.active = make(map[string]bool)
	e.index.Reset()
	e.diags = nil
	e.stats.Passes++

	elems, err := e.visit(keypath.Root, root)
	if err != nil {
		e.prev = ""
		e.evict(old, false)
		logger.Println("render failed:", err)
		return nil, err
	}
	e.evict(old, true)

	if ent := e.cache[keypath.Root.String()]; ent != nil && ent.handle != nil {
		e.rootHandle = ent.handle
	} else if len(elems) > 0 {
		if e.rootHandle == nil || !slices.Equal(e.rootHandle.Elements, elems) {
			e.rootHandle = NewHandle(elems...)
		}
	} else {
		e.rootHandle = nil
	}
	e.prev = string(canon)
	return e.rootHandle, nil
}

func (e *Engine) visit(path keypath.Path, n *model.Node) ([]*elem.Element, error) {
	key := path.String()
	e.active[key] = true

	if n == nil {
		e.report(diag.MissingData, path, "", "no node")
		return e.carried(path), nil
	}
	if n.Type == "" {
		e.report(diag.MissingType, path, "", "node has no type")
		return e.carried(path), nil
	}
	d, ok := e.registry.Resolve(n.Type)
	if !ok {
		e.report(diag.UnknownType, path, n.Type, fmt.Sprintf("no descriptor for %q", n.Type))
		return e.carried(path), nil
	}
	for _, kind := range d.Kinds() {
		e.index.Register(kind, path)
	}

	prior := e.cache[key]
	keys := slices.Clone(n.Children.Keys())
	children := make(map[string][]*elem.Element, len(keys))
	for _, k := range keys {
		c, _ := n.Children.Get(k)
		es, err := e.visit(path.Child(k), c)
		if err != nil {
			return nil, err
		}
		children[k] = es
	}

	if d.variant == VariantContainer {
		e.cache[key] = &entry{typ: n.Type, container: true, childKeys: keys}
		var flat []*elem.Element
		for _, k := range keys {
			flat = append(flat, children[k]...)
		}
		return flat, nil
	}

	if prior != nil && (prior.typ != n.Type || prior.container) {
		prior = nil
	}

	external := e.external(d, path, n)
	fp, err := model.NewFingerprint(n.Type, n.Data, external)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	h, err := e.materialize(d, prior, path, n, fp, external)
	if err != nil {
		return nil, fmt.Errorf("render %s (type %q): %w", path, n.Type, err)
	}
	e.cache[key] = &entry{typ: n.Type, handle: h, fp: fp, childKeys: keys}

	if len(keys) > 0 {
		if container := d.containerOf(h); container != nil {
			force := prior != nil && n.Children.IsList() && sameOrder(prior.childKeys, keys)
			d.policy.attach(container, keys, children, force)
		}
		for _, k := range keys {
			for _, c := range children[k] {
				if c.Parent() == nil {
					e.report(diag.OrphanedChild, path.Child(k), "",
						fmt.Sprintf("element %q was not attached by %q", c.Tag, n.Type))
					break
				}
			}
		}
	}
	return h.elements(), nil
}

func (e *Engine) materialize(d *Descriptor, prior *entry, path keypath.Path, n *model.Node, fp model.Fingerprint, external []any) (*Handle, error) {
	var h *Handle
	if prior != nil {
		h = prior.handle
	}
	switch d.variant {
	case VariantVolatile:
		e.stats.Updates++
		return d.update(path, h, n, external)
	default:
		if prior != nil && prior.fp.Equal(fp) {
			e.stats.Reuses++
			return h, nil
		}
		if h == nil {
			var err error
			if h, err = d.make.build(); err != nil {
				return nil, err
			}
			e.stats.Makes++
		}
		if d.update == nil {
			return h, nil
		}
		e.stats.Updates++
		nh, err := d.update(path, h, n, external)
		if err != nil {
			return nil, err
		}
		if nh == nil {
			return h, nil
		}
		return nh, nil
	}
}

// external reads the data at each dependency path from the model being
// rendered. Absent paths read as nil.
func (e *Engine) external(d *Descriptor, path keypath.Path, n *model.Node) []any {
	paths := d.deps.Paths(path, n)
	if len(paths) == 0 {
		return nil
	}
	values := make([]any, len(paths))
	for i, p := range paths {
		if dep := model.Lookup(e.root, p); dep != nil {
			values[i] = dep.Data
		}
	}
	return values
}

// carried returns the elements of the entry left at path by an earlier pass.
// A node that cannot be rendered keeps its last rendered state.
func (e *Engine) carried(path keypath.Path) []*elem.Element {
	ent := e.cache[path.String()]
	if ent == nil {
		return nil
	}
	if !ent.container {
		return ent.handle.elements()
	}
	var flat []*elem.Element
	for _, k := range ent.childKeys {
		flat = append(flat, e.carried(path.Child(k))...)
	}
	return flat
}

// evict drops the entries of paths that were not visited and detaches the
// elements of old entries that are no longer owned by any entry. When the
// pass did not complete, only replaced handles are evicted; entries of paths
// the pass did not reach are kept for the next pass.
func (e *Engine) evict(old map[string]*entry, complete bool) {
	if complete {
		for key := range e.cache {
			if !e.active[key] {
				delete(e.cache, key)
			}
		}
	}
	live := make(map[*elem.Element]bool)
	for _, ent := range e.cache {
		for _, el := range ent.handle.elements() {
			live[el] = true
		}
	}
	keys := make([]string, 0, len(old))
	for key := range old {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		o := old[key]
		if cur := e.cache[key]; cur != nil && cur.handle == o.handle {
			continue
		}
		for _, el := range o.handle.elements() {
			if !live[el] && el.Detach() {
				e.stats.Detaches++
			}
		}
	}
}

func (e *Engine) report(kind diag.Kind, path keypath.Path, typ, msg string) {
	d := diag.Diagnostic{Kind: kind, Path: path, Type: typ, Message: msg}
	e.diags = append(e.diags, d)
	e.reporter.Report(d)
}

// Dispatch renders the current tree, calls the handlers registered for kind
// in tree order, and renders again so that changes the handlers made to the
// model are reflected.
func (e *Engine) Dispatch(kind event.Kind) error {
	if e.root == nil {
		return ErrNotRendered
	}
	if _, err := e.Render(e.root); err != nil {
		return err
	}
	for _, path := range e.index.Paths(kind) {
		n := model.Lookup(e.root, path)
		if n == nil {
			continue
		}
		d, ok := e.registry.Resolve(n.Type)
		if !ok {
			continue
		}
		if h := d.Handler(kind); h != nil {
			h(kind, path, e.root)
		}
	}
	_, err := e.Render(e.root)
	return err
}

// Root returns the tree passed to the last Render call.
func (e *Engine) Root() *model.Node { return e.root }

// Handle returns the root handle of the last successful pass.
func (e *Engine) Handle() *Handle { return e.rootHandle }

// HandleAt returns the handle cached for path, or nil.
func (e *Engine) HandleAt(path keypath.Path) *Handle {
	if ent := e.cache[path.String()]; ent != nil {
		return ent.handle
	}
	return nil
}

// Paths returns the paths registered for an event kind in the last pass, in
// tree order.
func (e *Engine) Paths(kind event.Kind) []keypath.Path { return e.index.Paths(kind) }

// Diagnostics returns the diagnostics of the last pass that visited the
// tree.
func (e *Engine) Diagnostics() []diag.Diagnostic { return slices.Clone(e.diags) }

// Stats returns the work counters.
func (e *Engine) Stats() Stats { return e.stats }

// Registry returns the registry of the engine.
func (e *Engine) Registry() *Registry { return e.registry }
