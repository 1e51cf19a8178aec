// Package model defines the declarative model tree rendered by the engine.
//
// A model tree is made of Nodes. Each node has a type tag, opaque data and an
// optional set of children that is either an anonymous list or a keyed set
// with a stable insertion order. Trees are plain data: they can be built in
// Go, decoded from JSON and compared through their canonical encoding.
package model

import (
	"strconv"

	"github.com/wraith13/never-stop-watch/pkg/keypath"
)

// Node is one node of the model tree.
type Node struct {
	Type     string
	Data     any
	Children *Children
}

// New returns a node without children.
func New(typ string, data any) *Node {
	return &Node{Type: typ, Data: data}
}

// WithChildren sets the children and returns the receiver.
func (n *Node) WithChildren(c *Children) *Node {
	n.Children = c
	return n
}

// Child returns the child with the given key, or nil.
func (n *Node) Child(key string) *Node {
	if n == nil || n.Children == nil {
		return nil
	}
	c, _ := n.Children.Get(key)
	return c
}

// Lookup returns the node at path p under root, or nil when there is none.
func Lookup(root *Node, p keypath.Path) *Node {
	n := root
	for _, key := range p {
		n = n.Child(key)
		if n == nil {
			return nil
		}
	}
	return n
}

// Children is an ordered set of child nodes, either anonymous (a list) or
// keyed. The zero value is an empty keyed set.
type Children struct {
	list  bool
	keys  []string
	nodes map[string]*Node
}

// List returns an anonymous child list. Keys are the decimal indices.
func List(nodes ...*Node) *Children {
	c := &Children{list: true}
	for _, n := range nodes {
		c.Append(n)
	}
	return c
}

// Keyed returns an empty keyed child set.
func Keyed() *Children {
	return &Children{}
}

// IsList reports whether the children are an anonymous list.
func (c *Children) IsList() bool { return c != nil && c.list }

// Len returns the number of children.
func (c *Children) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the child keys in render order. The result must not be
// modified.
func (c *Children) Keys() []string {
	if c == nil {
		return nil
	}
	return c.keys
}

// Get returns the child with the given key. A key may be present with a nil
// node.
func (c *Children) Get(key string) (*Node, bool) {
	if c == nil {
		return nil, false
	}
	n, ok := c.nodes[key]
	return n, ok
}

// Append adds a node at the end of a list. On a keyed set it uses the next
// decimal index as the key.
func (c *Children) Append(n *Node) *Children {
	return c.Set(strconv.Itoa(len(c.keys)), n)
}

// Set associates a key with a node. An existing key keeps its position; a new
// key is added at the end.
func (c *Children) Set(key string, n *Node) *Children {
	if c.nodes == nil {
		c.nodes = make(map[string]*Node)
	}
	if _, ok := c.nodes[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.nodes[key] = n
	return c
}

// Delete removes a key. Removing from a list renumbers the following
// children.
func (c *Children) Delete(key string) *Children {
	if _, ok := c.nodes[key]; !ok {
		return c
	}
	i := c.index(key)
	c.keys = append(c.keys[:i:i], c.keys[i+1:]...)
	delete(c.nodes, key)
	if c.list {
		c.renumber()
	}
	return c
}

// Move moves a key to the given position, clamped to the valid range. Moving
// within a list renumbers the children.
func (c *Children) Move(key string, to int) *Children {
	if _, ok := c.nodes[key]; !ok {
		return c
	}
	i := c.index(key)
	rest := append(c.keys[:i:i], c.keys[i+1:]...)
	to = max(0, min(to, len(rest)))
	keys := make([]string, 0, len(c.keys))
	keys = append(keys, rest[:to]...)
	keys = append(keys, key)
	keys = append(keys, rest[to:]...)
	c.keys = keys
	if c.list {
		c.renumber()
	}
	return c
}

func (c *Children) index(key string) int {
	for i, k := range c.keys {
		if k == key {
			return i
		}
	}
	return -1
}

func (c *Children) renumber() {
	nodes := make(map[string]*Node, len(c.keys))
	for i, k := range c.keys {
		key := strconv.Itoa(i)
		nodes[key] = c.nodes[k]
		c.keys[i] = key
	}
	c.nodes = nodes
}
