package render

import "github.com/wraith13/never-stop-watch/pkg/elem"

// Handle owns the retained elements of one rendered node. Most nodes own a
// single element; a node may also expand to several sibling elements without
// a wrapper.
//
// The engine compares handles by pointer to decide whether a node was carried
// forward, so an update function that does not need to replace the elements
// should return the handle it was given.
type Handle struct {
	Elements []*elem.Element
}

// NewHandle returns a handle owning the given elements.
func NewHandle(es ...*elem.Element) *Handle {
	return &Handle{Elements: es}
}

// Primary returns the first element, or nil.
func (h *Handle) Primary() *elem.Element {
	if h == nil || len(h.Elements) == 0 {
		return nil
	}
	return h.Elements[0]
}

// Len returns the number of elements.
func (h *Handle) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Elements)
}

func (h *Handle) elements() []*elem.Element {
	if h == nil {
		return nil
	}
	return h.Elements
}
