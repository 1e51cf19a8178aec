package render

import "github.com/wraith13/never-stop-watch/pkg/elem"

type policyKind uint8

const (
	appendIfAbsent policyKind = iota
	fixedOrder
	custom
)

// CustomFunc arranges the children of container. It receives the child keys
// in render order, the elements each child contributes and whether the
// children are a list whose order did not change since the last pass.
type CustomFunc func(container *elem.Element, keys []string, children map[string][]*elem.Element, forceAppend bool)

// ChildPolicy decides how the elements of a node's children are attached to
// the node's container element. The zero value is AppendIfAbsent.
type ChildPolicy struct {
	kind   policyKind
	keys   []string
	custom CustomFunc
}

// AppendIfAbsent appends each child element that is not already a child of
// the container, in render order. Elements already in place are never moved,
// so children that rarely reorder keep a stable order cheaply.
//
// In force append mode the presence check is skipped: the elements are
// appended in render order starting from the first one that is not in place,
// so a replaced or missing element never ends up out of order.
func AppendIfAbsent() ChildPolicy { return ChildPolicy{kind: appendIfAbsent} }

// FixedOrder makes the elements of the listed keys the exact children of the
// container, in the listed order. The container is rewritten only when a
// listed element is missing or out of order. Children whose keys are not
// listed are left unattached.
func FixedOrder(keys ...string) ChildPolicy { return ChildPolicy{kind: fixedOrder, keys: keys} }

// Custom delegates the arrangement to f.
func Custom(f CustomFunc) ChildPolicy { return ChildPolicy{kind: custom, custom: f} }

func (p ChildPolicy) attach(container *elem.Element, keys []string, children map[string][]*elem.Element, force bool) {
	switch p.kind {
	case fixedOrder:
		var want []*elem.Element
		for _, key := range p.keys {
			want = append(want, children[key]...)
		}
		if !inOrder(container, want) {
			container.ReplaceChildren(want...)
		}
	case custom:
		p.custom(container, keys, children, force)
	default:
		var flat []*elem.Element
		for _, key := range keys {
			flat = append(flat, children[key]...)
		}
		if force {
			for _, e := range flat[inPlace(container, flat):] {
				container.AppendChild(e)
			}
			return
		}
		for _, e := range flat {
			if e.Parent() != container {
				container.AppendChild(e)
			}
		}
	}
}

// inPlace returns the length of the longest prefix of want whose elements are
// children of container in the same relative order.
func inPlace(container *elem.Element, want []*elem.Element) int {
	last := -1
	for i, e := range want {
		if e.Parent() != container {
			return i
		}
		j := container.IndexOf(e)
		if j <= last {
			return i
		}
		last = j
	}
	return len(want)
}

// inOrder reports whether all of want are children of container, in the
// same relative order.
func inOrder(container *elem.Element, want []*elem.Element) bool {
	return inPlace(container, want) == len(want)
}

// sameOrder reports whether the keys of old that are still present appear in
// now at the same positions. Keys added at the end keep the order.
func sameOrder(old, now []string) bool {
	present := make(map[string]bool, len(now))
	for _, k := range now {
		present[k] = true
	}
	i := 0
	for _, k := range old {
		if !present[k] {
			continue
		}
		if now[i] != k {
			return false
		}
		i++
	}
	return true
}
