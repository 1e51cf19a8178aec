// Package elem implements a retained element tree.
//
// Elements are mutable and long-lived: the render engine creates them once and
// then updates them in place. Each element has a tag, text, attributes, style
// properties and an ordered list of children, and knows its parent. Setters
// only write when the value actually changes, and every change is reported to
// the observers registered on the element.
package elem

import (
	"slices"
	"sort"
)

// Element is a node of the retained tree.
type Element struct {
	Tag string

	text      string
	attrs     map[string]string
	style     map[string]string
	classes   []string
	children  []*Element
	parent    *Element
	observers []func(Mutation)
}

// New creates a detached element.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Parent returns the parent element, or nil for a detached element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the i-th child, or nil when out of range.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// IndexOf returns the position of c among the children, or -1.
func (e *Element) IndexOf(c *Element) int {
	return slices.Index(e.children, c)
}

// Contains reports whether c is a direct child. Unlike checking c.Parent(),
// it scans the child list.
func (e *Element) Contains(c *Element) bool { return e.IndexOf(c) >= 0 }

// Text returns the text content of the element itself.
func (e *Element) Text() string { return e.text }

// SetText sets the text content and reports whether it changed.
func (e *Element) SetText(s string) bool {
	if e.text == s {
		return false
	}
	e.text = s
	e.notify(Mutation{Op: OpText, Target: e, Name: "text", Value: s})
	return true
}

// Attr returns an attribute and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute and reports whether it changed.
func (e *Element) SetAttr(name, value string) bool {
	if v, ok := e.attrs[name]; ok && v == value {
		return false
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	e.notify(Mutation{Op: OpAttr, Target: e, Name: name, Value: value})
	return true
}

// RemoveAttr removes an attribute and reports whether it was set.
func (e *Element) RemoveAttr(name string) bool {
	if _, ok := e.attrs[name]; !ok {
		return false
	}
	delete(e.attrs, name)
	e.notify(Mutation{Op: OpAttr, Target: e, Name: name, Removed: true})
	return true
}

// Style returns a style property, or "" when unset.
func (e *Element) Style(name string) string { return e.style[name] }

// SetStyle sets a style property. An empty value removes the property. It
// reports whether anything changed.
func (e *Element) SetStyle(name, value string) bool {
	if value == "" {
		return e.RemoveStyle(name)
	}
	if e.style[name] == value {
		return false
	}
	if e.style == nil {
		e.style = make(map[string]string)
	}
	e.style[name] = value
	e.notify(Mutation{Op: OpStyle, Target: e, Name: name, Value: value})
	return true
}

// RemoveStyle removes a style property and reports whether it was set.
func (e *Element) RemoveStyle(name string) bool {
	if _, ok := e.style[name]; !ok {
		return false
	}
	delete(e.style, name)
	e.notify(Mutation{Op: OpStyle, Target: e, Name: name, Removed: true})
	return true
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// SetClasses replaces the class list and reports whether it changed.
func (e *Element) SetClasses(classes ...string) bool {
	if slices.Equal(e.classes, classes) {
		return false
	}
	e.classes = slices.Clone(classes)
	e.notify(Mutation{Op: OpAttr, Target: e, Name: "class"})
	return true
}

// HasClass reports whether the element has the class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// AppendChild appends c, detaching it from its current parent first. It
// returns e.
func (e *Element) AppendChild(c *Element) *Element {
	return e.InsertChild(c, len(e.children))
}

// InsertChild inserts c at index i (clamped), detaching it from its current
// parent first. It returns e.
func (e *Element) InsertChild(c *Element, i int) *Element {
	if c == nil || c == e {
		return e
	}
	if c.parent != nil {
		if c.parent == e && e.IndexOf(c) < i {
			i--
		}
		c.parent.removeChild(c)
	}
	i = max(0, min(i, len(e.children)))
	e.children = slices.Insert(e.children, i, c)
	c.parent = e
	e.notify(Mutation{Op: OpAppend, Target: e, Child: c, Index: i})
	return e
}

// RemoveChild removes c if it is a child and reports whether it was.
func (e *Element) RemoveChild(c *Element) bool {
	if c == nil || c.parent != e {
		return false
	}
	e.removeChild(c)
	return true
}

func (e *Element) removeChild(c *Element) {
	i := e.IndexOf(c)
	if i < 0 {
		return
	}
	e.children = slices.Delete(e.children, i, i+1)
	c.parent = nil
	e.notify(Mutation{Op: OpRemove, Target: e, Child: c, Index: i})
}

// Detach removes e from its parent and reports whether it had one.
func (e *Element) Detach() bool {
	if e.parent == nil {
		return false
	}
	return e.parent.RemoveChild(e)
}

// ReplaceChildren makes cs the exact child list of e. Children not in cs are
// removed; the others are moved into place. Elements already at the right
// index are left untouched.
func (e *Element) ReplaceChildren(cs ...*Element) {
	keep := make(map[*Element]bool, len(cs))
	for _, c := range cs {
		keep[c] = true
	}
	for _, c := range e.Children() {
		if !keep[c] {
			e.removeChild(c)
		}
	}
	for i, c := range cs {
		if e.Child(i) != c {
			e.InsertChild(c, i)
		}
	}
}

// Clone returns a detached deep copy of e without observers.
func (e *Element) Clone() *Element {
	c := &Element{
		Tag:     e.Tag,
		text:    e.text,
		classes: slices.Clone(e.classes),
	}
	if e.attrs != nil {
		c.attrs = make(map[string]string, len(e.attrs))
		for k, v := range e.attrs {
			c.attrs[k] = v
		}
	}
	if e.style != nil {
		c.style = make(map[string]string, len(e.style))
		for k, v := range e.style {
			c.style[k] = v
		}
	}
	for _, child := range e.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Walk calls f on e and its descendants in pre-order. Returning false from f
// skips the descendants of that element.
func (e *Element) Walk(f func(*Element) bool) {
	if !f(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(f)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
