package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadChildren is returned when "children" is neither an array, an object
// nor null.
var ErrBadChildren = errors.New("children must be an array or an object")

type wireNode struct {
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data,omitempty"`
	Children json.RawMessage `json:"children,omitempty"`
}

// UnmarshalJSON decodes the wire format
//
//	{"type": string, "data": any, "children": [...] | {...}}
//
// Keyed children keep the order in which their keys appear.
func (n *Node) UnmarshalJSON(b []byte) error {
	var w wireNode
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	n.Type = w.Type
	n.Data = nil
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &n.Data); err != nil {
			return err
		}
	}
	children, err := unmarshalChildren(w.Children)
	if err != nil {
		return err
	}
	n.Children = children
	return nil
}

func unmarshalChildren(b []byte) (*Children, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	switch b[0] {
	case '[':
		var nodes []*Node
		if err := json.Unmarshal(b, &nodes); err != nil {
			return nil, err
		}
		return List(nodes...), nil
	case '{':
		return unmarshalKeyed(b)
	}
	return nil, ErrBadChildren
}

// The standard decoder loses object key order, so keyed children are read
// token by token.
func unmarshalKeyed(b []byte) (*Children, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	c := Keyed()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in children", tok)
		}
		var n *Node
		if err := dec.Decode(&n); err != nil {
			return nil, fmt.Errorf("child %q: %w", key, err)
		}
		c.Set(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return c, nil
}

// MarshalJSON encodes the wire format. Keyed children are written in render
// order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	if err := writeJSON(&buf, n.Type); err != nil {
		return nil, err
	}
	if n.Data != nil {
		buf.WriteString(`,"data":`)
		if err := writeJSON(&buf, n.Data); err != nil {
			return nil, err
		}
	}
	if n.Children != nil {
		buf.WriteString(`,"children":`)
		b, err := n.Children.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes a list as an array and a keyed set as an object.
func (c *Children) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	begin, end := byte('{'), byte('}')
	if c.list {
		begin, end = '[', ']'
	}
	buf.WriteByte(begin)
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !c.list {
			if err := writeJSON(&buf, key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
		}
		if err := writeJSON(&buf, c.nodes[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(end)
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Decode parses a model tree from JSON.
func Decode(b []byte) (*Node, error) {
	var n *Node
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	return n, nil
}
