// Package widgets provides a set of generic descriptors.
//
// The widgets know nothing about stopwatches or alarms. They lay out text,
// follow the theme and title written to the data of the root node, and count
// ticks. Applications build model trees out of them.
//
// Node data is expected to be a JSON object, decoded as map[string]any. The
// keys understood by every widget except group are:
//
//	class   extra class of the element
//	hidden  true to hide the element and its subtree
package widgets

import (
	"fmt"
	"strconv"

	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/event"
	"github.com/wraith13/never-stop-watch/pkg/keypath"
	"github.com/wraith13/never-stop-watch/pkg/model"
	"github.com/wraith13/never-stop-watch/pkg/render"
)

// Type names of the widgets.
const (
	Screen      = "screen"
	Group       = "group"
	Label       = "label"
	List        = "list"
	Segment     = "segment"
	Title       = "title"
	Ticker      = "ticker"
	Toast       = "toast"
	Placeholder = "placeholder"
)

// Slots of a screen, in display order.
var ScreenSlots = []string{"header", "body", "bar", "toast"}

// Register registers every widget with reg.
func Register(reg *render.Registry) error {
	for _, w := range []struct {
		typ string
		d   *render.Descriptor
	}{
		{Screen, screen()},
		{Group, render.Container()},
		{Label, label()},
		{List, list()},
		{Segment, segment()},
		{Title, title()},
		{Ticker, ticker()},
		{Toast, toast()},
		{Placeholder, placeholder()},
	} {
		if err := reg.Register(w.typ, w.d); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFallback makes reg render nodes of unknown types as placeholders.
func RegisterFallback(reg *render.Registry) error {
	return reg.SetFallback(placeholder())
}

func screen() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Screen)), updateCommon).
		WithChildren(render.FixedOrder(ScreenSlots...)).
		On(event.Focus, setFocused(true)).
		On(event.Blur, setFocused(false))
}

func setFocused(focused bool) render.Handler {
	return func(_ event.Kind, path keypath.Path, root *model.Node) {
		if n := model.Lookup(root, path); n != nil {
			n.Data = with(n.Data, "blurred", !focused)
		}
	}
}

func label() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Label)),
		func(path keypath.Path, h *render.Handle, n *model.Node, external []any) (*render.Handle, error) {
			h.Primary().SetText(str(n.Data, "text"))
			return updateCommon(path, h, n, external)
		})
}

func list() *render.Descriptor {
	return render.Standard(render.Template(elem.New(List)), updateCommon).
		WithChildren(render.AppendIfAbsent())
}

// Backgrounds of the known themes.
var themeBackgrounds = map[string]string{
	"dark":  "#000000",
	"light": "#ffffff",
}

func segment() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Segment)),
		func(path keypath.Path, h *render.Handle, n *model.Node, external []any) (*render.Handle, error) {
			e := h.Primary()
			e.SetText(str(n.Data, "text"))
			theme := str(external[0], "theme")
			if bg, ok := themeBackgrounds[theme]; ok {
				e.SetStyle("background", bg)
			} else {
				e.RemoveStyle("background")
			}
			if theme != "" {
				e.SetAttr("theme", theme)
			} else {
				e.RemoveAttr("theme")
			}
			return updateCommon(path, h, n, external)
		}).
		WithDeps(render.StaticDeps(keypath.Root))
}

func title() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Title)),
		func(path keypath.Path, h *render.Handle, n *model.Node, external []any) (*render.Handle, error) {
			e := h.Primary()
			t := str(external[0], "title")
			if t != "" {
				e.SetAttr("window-title", t)
			} else {
				e.RemoveAttr("window-title")
			}
			text := str(n.Data, "text")
			if text == "" {
				text = t
			}
			e.SetText(text)
			return updateCommon(path, h, n, external)
		}).
		WithDeps(render.StaticDeps(keypath.Root))
}

// A ticker counts the ticks of the timer kind its data selects: the high
// resolution timer when "fast" is true, the timer otherwise. It shows
// "label" followed by the count.
func ticker() *render.Descriptor {
	return render.Volatile(
		func(path keypath.Path, h *render.Handle, n *model.Node, external []any) (*render.Handle, error) {
			if h == nil {
				h = render.NewHandle(elem.New(Ticker))
			}
			text := strconv.FormatInt(int64(num(n.Data, "ticks")), 10)
			if l := str(n.Data, "label"); l != "" {
				text = l + " " + text
			}
			h.Primary().SetText(text)
			return updateCommon(path, h, n, external)
		}).
		On(event.HighResolutionTimer, tick).
		On(event.Timer, tick)
}

func tick(kind event.Kind, path keypath.Path, root *model.Node) {
	n := model.Lookup(root, path)
	if n == nil {
		return
	}
	fast, _ := field(n.Data, "fast").(bool)
	if fast != (kind == event.HighResolutionTimer) {
		return
	}
	n.Data = with(n.Data, "ticks", num(n.Data, "ticks")+1)
}

// A toast shows its children newest first and dismisses the oldest one on
// operate.
func toast() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Toast)), updateCommon).
		WithChildren(render.Custom(newestFirst)).
		On(event.Operate, dismissOldest)
}

func newestFirst(container *elem.Element, keys []string, children map[string][]*elem.Element, _ bool) {
	var want []*elem.Element
	for i := len(keys) - 1; i >= 0; i-- {
		want = append(want, children[keys[i]]...)
	}
	container.ReplaceChildren(want...)
}

func dismissOldest(_ event.Kind, path keypath.Path, root *model.Node) {
	n := model.Lookup(root, path)
	if n == nil || n.Children.Len() == 0 {
		return
	}
	n.Children.Delete(n.Children.Keys()[0])
}

func placeholder() *render.Descriptor {
	return render.Standard(render.Template(elem.New(Placeholder)),
		func(path keypath.Path, h *render.Handle, n *model.Node, external []any) (*render.Handle, error) {
			h.Primary().SetText(fmt.Sprintf("[%s]", n.Type))
			return updateCommon(path, h, n, external)
		}).
		WithChildren(render.AppendIfAbsent())
}

// updateCommon applies the data keys shared by all widgets.
func updateCommon(_ keypath.Path, h *render.Handle, n *model.Node, _ []any) (*render.Handle, error) {
	e := h.Primary()
	if class := str(n.Data, "class"); class != "" {
		e.SetClasses(class)
	} else {
		e.SetClasses()
	}
	if hidden, _ := field(n.Data, "hidden").(bool); hidden {
		e.SetAttr("hidden", "")
	} else {
		e.RemoveAttr("hidden")
	}
	if blurred, _ := field(n.Data, "blurred").(bool); blurred {
		e.SetAttr("blurred", "")
	} else {
		e.RemoveAttr("blurred")
	}
	return h, nil
}

// NewRegistry returns a sealed registry with the widgets registered, and the
// placeholder as fallback if fallback is true.
func NewRegistry(fallback bool) (*render.Registry, error) {
	reg := render.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	if fallback {
		if err := RegisterFallback(reg); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}
