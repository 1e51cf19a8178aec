package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wraith13/never-stop-watch/pkg/diag"
	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/keypath"
	"github.com/wraith13/never-stop-watch/pkg/model"
)

type fixture struct {
	t       *testing.T
	updates map[string]int
	reg     *Registry
	diags   diag.Collector
	engine  *Engine
}

func setup(t *testing.T) *fixture {
	f := &fixture{t: t, updates: make(map[string]int)}
	f.reg = NewRegistry()
	f.reg.MustRegister("box", Standard(Template(elem.New("box")), f.counted(nil)))
	f.reg.MustRegister("label", Standard(Template(elem.New("label")), f.counted(setText)))
	f.reg.MustRegister("group", Container())
	f.engine = NewEngine(EngineSpec{Registry: f.reg, Reporter: &f.diags})
	return f
}

// counted returns an update function that counts calls per path and then
// calls body, if any, on the primary element.
func (f *fixture) counted(body func(*elem.Element, *model.Node, []any)) UpdateFunc {
	return func(path keypath.Path, h *Handle, n *model.Node, external []any) (*Handle, error) {
		f.updates[path.String()]++
		if body != nil {
			body(h.Primary(), n, external)
		}
		return h, nil
	}
}

func setText(e *elem.Element, n *model.Node, _ []any) { e.SetText(fmt.Sprint(n.Data)) }

func (f *fixture) render(root *model.Node) *Handle {
	f.t.Helper()
	h, err := f.engine.Render(root)
	if err != nil {
		f.t.Fatalf("Render: %v", err)
	}
	return h
}

func (f *fixture) at(keys ...string) *elem.Element {
	return f.engine.HandleAt(keypath.Of(keys...)).Primary()
}

func (f *fixture) totalUpdates() int {
	n := 0
	for _, c := range f.updates {
		n += c
	}
	return n
}

func keyed(typ string, data any, kv ...any) *model.Node {
	c := model.Keyed()
	for i := 0; i+1 < len(kv); i += 2 {
		n, _ := kv[i+1].(*model.Node)
		c.Set(kv[i].(string), n)
	}
	return model.New(typ, data).WithChildren(c)
}

func label(text string) *model.Node { return model.New("label", text) }

func texts(e *elem.Element) []string {
	var ts []string
	for _, c := range e.Children() {
		ts = append(ts, c.Text())
	}
	return ts
}

func TestRender_MakesTree(t *testing.T) {
	f := setup(t)
	h := f.render(keyed("box", nil, "a", label("A"), "b", label("B")))

	want := "box\n  label \"A\"\n  label \"B\"\n"
	if got := elem.Dump(h.Primary()); got != want {
		t.Errorf("tree:\n%s\nwant:\n%s", got, want)
	}
	if s := f.engine.Stats(); s.Makes != 3 || s.Updates != 3 {
		t.Errorf("stats %+v, want 3 makes and 3 updates", s)
	}
	if d := f.engine.Diagnostics(); len(d) != 0 {
		t.Errorf("unexpected diagnostics %v", d)
	}
}

func TestRender_IdenticalTreeIsSkipped(t *testing.T) {
	f := setup(t)
	h1 := f.render(keyed("box", nil, "a", label("A"), "b", label("B")))
	before := f.totalUpdates()

	h2 := f.render(keyed("box", nil, "a", label("A"), "b", label("B")))
	if h2 != h1 {
		t.Errorf("second render returned a different root handle")
	}
	if n := f.totalUpdates() - before; n != 0 {
		t.Errorf("second render made %d update calls, want 0", n)
	}
	if s := f.engine.Stats(); s.Skipped != 1 || s.Passes != 1 {
		t.Errorf("stats %+v, want 1 pass and 1 skip", s)
	}
}

func TestRender_UnchangedNodesAreReused(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"), "b", label("B"))
	f.render(root)
	ha, hb := f.engine.HandleAt(keypath.Of("a")), f.engine.HandleAt(keypath.Of("b"))

	root.Child("b").Data = "B2"
	f.render(root)

	if f.engine.HandleAt(keypath.Of("a")) != ha {
		t.Errorf("handle of unchanged /a was replaced")
	}
	if f.engine.HandleAt(keypath.Of("b")) != hb {
		t.Errorf("handle of updated /b was replaced")
	}
	want := map[string]int{"": 1, "/a": 1, "/b": 2}
	if diff := cmp.Diff(want, f.updates); diff != "" {
		t.Errorf("updates (-want +got):\n%s", diff)
	}
	if got := f.at("b").Text(); got != "B2" {
		t.Errorf("/b text = %q", got)
	}
}

func TestRender_ListChildrenStayPut(t *testing.T) {
	f := setup(t)
	root := model.New("box", nil).WithChildren(model.List(label("x"), label("y")))
	h := f.render(root)
	var rec elem.Recorder
	h.Primary().Observe(rec.Record())

	root.Child("1").Data = "z"
	f.render(root)
	if n := rec.Count(elem.OpAppend) + rec.Count(elem.OpRemove); n != 0 {
		t.Errorf("changing child data caused %d child list mutations", n)
	}
	if diff := cmp.Diff([]string{"x", "z"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	root.Children.Append(label("w"))
	f.render(root)
	if n := rec.Count(elem.OpAppend); n != 1 {
		t.Errorf("appending a child caused %d appends, want 1", n)
	}
	if n := rec.Count(elem.OpRemove); n != 0 {
		t.Errorf("appending a child caused %d removes, want 0", n)
	}
	if diff := cmp.Diff([]string{"x", "z", "w"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestRender_KeyedChildrenKeepElementsAcrossMoves(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"), "b", label("B"))
	h := f.render(root)
	a, b := f.at("a"), f.at("b")

	root.Children.Move("b", 0)
	f.render(root)
	if f.at("a") != a || f.at("b") != b {
		t.Errorf("moving a keyed child replaced elements")
	}
	if diff := cmp.Diff([]string{"A", "B"}, texts(h.Primary())); diff != "" {
		t.Errorf("append-if-absent moved children (-want +got):\n%s", diff)
	}
}

func TestRender_Eviction(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"), "b", label("B"))
	h := f.render(root)
	b := f.at("b")
	var rec elem.Recorder
	h.Primary().Observe(rec.Record())

	root.Children.Delete("b")
	f.render(root)
	if n := rec.CountChild(elem.OpRemove, b); n != 1 {
		t.Errorf("removed child detached %d times, want 1", n)
	}
	if b.Parent() != nil {
		t.Errorf("removed child still has a parent")
	}
	if f.engine.HandleAt(keypath.Of("b")) != nil {
		t.Errorf("removed path still cached")
	}

	root.Child("a").Data = "A2"
	f.render(root)
	if n := rec.CountChild(elem.OpRemove, b); n != 1 {
		t.Errorf("removed child detached %d times after another pass, want 1", n)
	}

	root.Children.Set("b", label("B"))
	f.render(root)
	if nb := f.at("b"); nb == b || nb.Parent() != h.Primary() {
		t.Errorf("reintroduced child should get a new attached element")
	}
	if n := rec.CountChild(elem.OpAppend, b); n != 0 {
		t.Errorf("old element reattached %d times", n)
	}
	if d := f.engine.Stats().Detaches; d != 1 {
		t.Errorf("Detaches = %d, want 1", d)
	}
}

func TestRender_EqualNodeAtSamePathIsCarriedForward(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"), "b", label("B"))
	h := f.render(root)
	hb := f.engine.HandleAt(keypath.Of("b"))
	var rec elem.Recorder
	h.Primary().Observe(rec.Record())

	root.Children.Set("b", label("B"))
	root.Child("a").Data = "A2"
	f.render(root)
	if f.engine.HandleAt(keypath.Of("b")) != hb {
		t.Errorf("equal node at /b got a new handle")
	}
	if n := rec.Count(elem.OpRemove); n != 0 {
		t.Errorf("%d elements detached, want 0", n)
	}
}

func TestRender_Dependencies(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("app", Standard(Template(elem.New("app")), f.counted(nil)).
		WithChildren(FixedOrder("header", "body")))
	f.reg.MustRegister("header", Standard(Template(elem.New("header")), f.counted(
		func(e *elem.Element, _ *model.Node, external []any) {
			theme, _ := external[0].(map[string]any)["theme"].(string)
			e.SetStyle("background", theme)
		})).WithDeps(StaticDeps(keypath.Root)))

	tree := func(theme, body string) *model.Node {
		return keyed("app", map[string]any{"theme": theme},
			"header", model.New("header", nil), "body", label(body))
	}

	f.render(tree("light", "b"))
	header := f.engine.HandleAt(keypath.Of("header"))
	if got := header.Primary().Style("background"); got != "light" {
		t.Errorf("background = %q, want light", got)
	}

	f.render(tree("light", "b2"))
	if n := f.updates["/header"]; n != 1 {
		t.Errorf("header updated %d times after an unrelated change, want 1", n)
	}

	f.render(tree("dark", "b2"))
	if n := f.updates["/header"]; n != 2 {
		t.Errorf("header updated %d times after a theme change, want 2", n)
	}
	if n := f.updates["/body"]; n != 2 {
		t.Errorf("body updated %d times, want 2", n)
	}
	if f.engine.HandleAt(keypath.Of("header")) != header {
		t.Errorf("header handle replaced")
	}
	if got := header.Primary().Style("background"); got != "dark" {
		t.Errorf("background = %q, want dark", got)
	}
}

func TestRender_ThemeScenario(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("root", Standard(Template(elem.New("root")), nil).
		WithChildren(FixedOrder("header", "body")))
	f.reg.MustRegister("H", Standard(Template(elem.New("H")), f.counted(
		func(e *elem.Element, _ *model.Node, external []any) {
			e.SetClasses(external[0].(string))
		})).WithDeps(DynamicDeps(func(keypath.Path, *model.Node) []keypath.Path {
		return []keypath.Path{keypath.Of("theme")}
	})))
	f.reg.MustRegister("theme", Standard(Template(elem.New("theme")), nil))
	f.reg.MustRegister("B", Standard(Template(elem.New("B")), f.counted(nil)))

	tree := func(theme string) *model.Node {
		return keyed("root", nil,
			"theme", model.New("theme", theme),
			"header", model.New("H", nil),
			"body", model.New("B", "content"))
	}
	// The theme node is not listed in the fixed order and stays unattached.
	ignoreOrphans := func() {
		for _, d := range f.engine.Diagnostics() {
			if d.Kind != diag.OrphanedChild || !d.Path.Equal(keypath.Of("theme")) {
				t.Errorf("unexpected diagnostic %v", d)
			}
		}
	}

	f.render(tree("light"))
	ignoreOrphans()
	h1 := f.engine.HandleAt(keypath.Of("header"))
	if !h1.Primary().HasClass("light") {
		t.Errorf("header classes %v", h1.Primary().Classes())
	}

	f.render(tree("dark"))
	ignoreOrphans()
	if n := f.updates["/body"]; n != 1 {
		t.Errorf("body updated %d times, want 1", n)
	}
	if n := f.updates["/header"]; n != 2 {
		t.Errorf("header updated %d times, want 2", n)
	}
	h2 := f.engine.HandleAt(keypath.Of("header"))
	if h2 != h1 || !h2.Primary().HasClass("dark") {
		t.Errorf("header not restyled in place")
	}

	before := f.totalUpdates()
	f.render(tree("dark"))
	if n := f.totalUpdates() - before; n != 0 {
		t.Errorf("third render made %d update calls", n)
	}
	if f.engine.HandleAt(keypath.Of("header")) != h2 {
		t.Errorf("third render replaced the header handle")
	}
}

func TestRender_FixedOrder(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("screen", Standard(Template(elem.New("screen")), nil).
		WithChildren(FixedOrder("header", "body", "bar")))
	root := keyed("screen", nil, "body", label("B"), "header", label("H"))
	h := f.render(root)
	if diff := cmp.Diff([]string{"H", "B"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	var rec elem.Recorder
	h.Primary().Observe(rec.Record())
	root.Child("body").Data = "B2"
	f.render(root)
	if n := rec.Count(elem.OpAppend) + rec.Count(elem.OpRemove); n != 0 {
		t.Errorf("correctly placed children were rewritten (%d mutations)", n)
	}

	root.Children.Set("bar", label("R"))
	root.Children.Set("extra", label("E"))
	f.render(root)
	if diff := cmp.Diff([]string{"H", "B2", "R"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]diag.Kind{diag.OrphanedChild}, f.diags.Kinds()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if d := f.diags.Diagnostics[0]; !d.Path.Equal(keypath.Of("extra")) {
		t.Errorf("orphan reported at %v", d.Path)
	}
}

func TestRender_CustomPolicy(t *testing.T) {
	f := setup(t)
	var forced []bool
	f.reg.MustRegister("stack", Standard(Template(elem.New("stack")), nil).WithChildren(Custom(
		func(c *elem.Element, keys []string, children map[string][]*elem.Element, force bool) {
			forced = append(forced, force)
			var want []*elem.Element
			for i := len(keys) - 1; i >= 0; i-- {
				want = append(want, children[keys[i]]...)
			}
			c.ReplaceChildren(want...)
		})))
	root := model.New("stack", nil).WithChildren(model.List(label("1"), label("2")))
	h := f.render(root)
	root.Children.Append(label("3"))
	f.render(root)
	if diff := cmp.Diff([]string{"3", "2", "1"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	// The first pass has no previous keys to compare with.
	if diff := cmp.Diff([]bool{false, true}, forced); diff != "" {
		t.Errorf("force flags (-want +got):\n%s", diff)
	}
}

func TestRender_Container(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil,
		"g", keyed("group", nil, "a", label("A"), "b", label("B")),
		"c", label("C"))
	h := f.render(root)
	if diff := cmp.Diff([]string{"A", "B", "C"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if f.engine.HandleAt(keypath.Of("g")) != nil {
		t.Errorf("container has a handle")
	}

	root.Child("g").Children.Delete("a")
	f.render(root)
	if diff := cmp.Diff([]string{"B", "C"}, texts(h.Primary())); diff != "" {
		t.Errorf("children after removal (-want +got):\n%s", diff)
	}
}

func TestRender_ContainerAtRoot(t *testing.T) {
	f := setup(t)
	root := keyed("group", nil, "a", label("A"), "b", label("B"))
	h := f.render(root)
	if h.Len() != 2 || h.Elements[0].Text() != "A" {
		t.Fatalf("root handle %v", h)
	}
	root.Child("a").Data = "A2"
	if h2 := f.render(root); h2 != h {
		t.Errorf("root handle replaced although its elements did not change")
	}
	if len(f.engine.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics %v", f.engine.Diagnostics())
	}
}

func TestRender_Diagnostics(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil,
		"a", label("A"),
		"nil", nil,
		"untyped", model.New("", "x"),
		"unknown", model.New("clock", nil))
	h := f.render(root)
	want := []diag.Diagnostic{
		{Kind: diag.MissingData, Path: keypath.Of("nil"), Message: "no node"},
		{Kind: diag.MissingType, Path: keypath.Of("untyped"), Message: "node has no type"},
		{Kind: diag.UnknownType, Path: keypath.Of("unknown"), Type: "clock", Message: `no descriptor for "clock"`},
	}
	if diff := cmp.Diff(want, f.engine.Diagnostics()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	root.Children.Delete("nil").Delete("untyped").Delete("unknown")
	f.render(root)
	if d := f.engine.Diagnostics(); len(d) != 0 {
		t.Errorf("diagnostics not cleared: %v", d)
	}
}

func TestRender_Fallback(t *testing.T) {
	f := setup(t)
	if err := f.reg.SetFallback(Standard(Template(elem.New("placeholder")), nil)); err != nil {
		t.Fatal(err)
	}
	h := f.render(keyed("box", nil, "x", model.New("clock", nil)))
	if c := h.Primary().Child(0); c == nil || c.Tag != "placeholder" {
		t.Errorf("unknown type not rendered as placeholder:\n%s", elem.Dump(h.Primary()))
	}
	if d := f.engine.Diagnostics(); len(d) != 0 {
		t.Errorf("unexpected diagnostics %v", d)
	}
}

func TestRender_SkippedNodeKeepsLastState(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"))
	h := f.render(root)
	a := f.at("a")

	root.Children.Set("a", nil)
	f.render(root)
	if a.Parent() != h.Primary() || f.at("a") != a {
		t.Errorf("element of a node with missing data was dropped")
	}
	if diff := cmp.Diff([]diag.Kind{diag.MissingData}, f.diags.Kinds()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestRender_TypeChange(t *testing.T) {
	f := setup(t)
	root := keyed("box", nil, "a", label("A"))
	h := f.render(root)
	old := f.at("a")

	root.Children.Set("a", model.New("box", nil))
	f.render(root)
	now := f.at("a")
	if now == old || now.Tag != "box" {
		t.Errorf("type change did not make a new element")
	}
	if old.Parent() != nil || now.Parent() != h.Primary() {
		t.Errorf("old element not replaced:\n%s", elem.Dump(h.Primary()))
	}
}

func TestRender_Volatile(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("tick", Volatile(func(path keypath.Path, _ *Handle, n *model.Node, _ []any) (*Handle, error) {
		f.updates[path.String()]++
		e := elem.New("tick")
		e.SetText(fmt.Sprint(n.Data))
		return NewHandle(e), nil
	}))
	f.reg.MustRegister("still", Volatile(func(path keypath.Path, h *Handle, _ *model.Node, _ []any) (*Handle, error) {
		f.updates[path.String()]++
		if h == nil {
			h = NewHandle(elem.New("still"))
		}
		return h, nil
	}))
	root := keyed("box", 0, "t", model.New("tick", 1), "s", model.New("still", nil))
	h := f.render(root)
	t1, s1 := f.at("t"), f.at("s")

	root.Data = 1
	f.render(root)
	t2 := f.at("t")
	if n := f.updates["/t"]; n != 2 {
		t.Errorf("volatile updated %d times, want 2", n)
	}
	if t2 == t1 || t1.Parent() != nil || t2.Parent() != h.Primary() {
		t.Errorf("fresh volatile element did not replace the old one:\n%s", elem.Dump(h.Primary()))
	}
	if f.at("s") != s1 || s1.Parent() != h.Primary() {
		t.Errorf("volatile returning its handle lost its element")
	}
	if n := f.updates["/s"]; n != 2 {
		t.Errorf("volatile updated %d times, want 2", n)
	}
}

func TestRender_TypeChangeKeepsListChildren(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("frame", Standard(Template(elem.New("frame")), nil))
	list := func(typ string) *model.Node {
		return model.New(typ, nil).WithChildren(model.List(label("A"), label("B")))
	}
	root := keyed("box", nil, "l", list("box"))
	h := f.render(root)
	old := f.at("l")

	root.Children.Set("l", list("frame"))
	f.render(root)
	now := f.at("l")
	if now.Tag != "frame" || old.Parent() != nil || now.Parent() != h.Primary() {
		t.Fatalf("list parent not replaced:\n%s", elem.Dump(h.Primary()))
	}
	if diff := cmp.Diff([]string{"A", "B"}, texts(now)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestRender_ReplacedHandleKeepsListChildren(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("swap", Standard(Template(elem.New("swap")),
		func(_ keypath.Path, _ *Handle, n *model.Node, _ []any) (*Handle, error) {
			e := elem.New("swap")
			e.SetText(fmt.Sprint(n.Data))
			return NewHandle(e), nil
		}))
	root := model.New("swap", 1).WithChildren(model.List(label("A"), label("B")))
	f.render(root)

	root.Data = 2
	h := f.render(root)
	if diff := cmp.Diff([]string{"A", "B"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestRender_VolatileListParent(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("vbox", Volatile(func(_ keypath.Path, _ *Handle, _ *model.Node, _ []any) (*Handle, error) {
		return NewHandle(elem.New("vbox")), nil
	}))
	root := keyed("box", 0, "v", model.New("vbox", nil).WithChildren(model.List(label("A"))))
	for pass := 1; pass <= 3; pass++ {
		root.Data = pass
		f.render(root)
		if diff := cmp.Diff([]string{"A"}, texts(f.at("v"))); diff != "" {
			t.Errorf("pass %d: children (-want +got):\n%s", pass, diff)
		}
	}
}

func TestRender_VolatileInMiddleOfList(t *testing.T) {
	f := setup(t)
	f.reg.MustRegister("tick", Volatile(func(_ keypath.Path, _ *Handle, n *model.Node, _ []any) (*Handle, error) {
		e := elem.New("tick")
		e.SetText(fmt.Sprint(n.Data))
		return NewHandle(e), nil
	}))
	root := model.New("box", 0).WithChildren(
		model.List(label("A"), model.New("tick", "T"), label("C")))
	h := f.render(root)
	var rec elem.Recorder
	h.Primary().Observe(rec.Record())

	root.Data = 1
	f.render(root)
	if diff := cmp.Diff([]string{"A", "T", "C"}, texts(h.Primary())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if n := rec.CountChild(elem.OpAppend, f.at("0")); n != 0 {
		t.Errorf("element before the volatile one appended %d times", n)
	}
}

func TestRender_DescriptorErrorsPropagate(t *testing.T) {
	f := setup(t)
	errBoom := errors.New("boom")
	fail := true
	f.reg.MustRegister("flaky", Standard(Template(elem.New("flaky")),
		func(_ keypath.Path, h *Handle, _ *model.Node, _ []any) (*Handle, error) {
			if fail {
				return nil, errBoom
			}
			return h, nil
		}))
	root := keyed("box", nil, "x", model.New("flaky", nil))

	if _, err := f.engine.Render(root); !errors.Is(err, errBoom) {
		t.Fatalf("Render error = %v, want %v", err, errBoom)
	}
	fail = false
	h := f.render(root)
	if c := h.Primary().Child(0); c == nil || c.Tag != "flaky" {
		t.Errorf("second render did not recover:\n%s", elem.Dump(h.Primary()))
	}
	if s := f.engine.Stats(); s.Passes != 2 || s.Skipped != 0 {
		t.Errorf("stats %+v, want 2 passes and no skip", s)
	}
}

func TestRender_UnserializableData(t *testing.T) {
	f := setup(t)
	if _, err := f.engine.Render(model.New("box", func() {})); err == nil {
		t.Errorf("want error for data that cannot be serialized")
	}
}

func TestDispatch(t *testing.T) {
	f := setup(t)
	var calls []string
	bump := func(kind event.Kind, path keypath.Path, root *model.Node) {
		calls = append(calls, fmt.Sprintf("%s %q", kind, path.String()))
		n := model.Lookup(root, path)
		n.Data = n.Data.(int) + 1
	}
	f.reg.MustRegister("clock", Standard(Template(elem.New("clock")), f.counted(setText)).
		On(event.Timer, bump).
		On(event.Focus, func(kind event.Kind, path keypath.Path, _ *model.Node) {
			calls = append(calls, fmt.Sprintf("%s %q", kind, path.String()))
		}))
	root := keyed("clock", 0, "a", model.New("clock", 10), "q", label("quiet"))

	if err := f.engine.Dispatch(event.Timer); !errors.Is(err, ErrNotRendered) {
		t.Errorf("Dispatch before Render = %v, want ErrNotRendered", err)
	}

	f.render(root)
	if diff := cmp.Diff([]keypath.Path{keypath.Root, keypath.Of("a")}, f.engine.Paths(event.Timer)); diff != "" {
		t.Errorf("timer paths (-want +got):\n%s", diff)
	}

	if err := f.engine.Dispatch(event.Timer); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`timer ""`, `timer "/a"`}, calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if got := f.at("a").Text(); got != "11" {
		t.Errorf("/a text = %q, want 11", got)
	}
	if n := f.updates["/q"]; n != 1 {
		t.Errorf("node without handlers updated %d times", n)
	}

	calls = nil
	if err := f.engine.Dispatch(event.Scroll); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Errorf("scroll dispatch called %v", calls)
	}
	if err := f.engine.Dispatch(event.Focus); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`focus ""`, `focus "/a"`}, calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}
