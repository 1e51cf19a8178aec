// Package keypath implements paths that address nodes in a model tree.
//
// A path is the list of child keys leading from the root to a node. Its string
// form uses JSON Pointer escaping, so it can be used as a map key and parsed
// back.
package keypath

import (
	"errors"
	"strings"
)

// Path is a sequence of child keys from the root. The root path is empty.
type Path []string

// Root is the path of the root node.
var Root = Path(nil)

// ErrNoLeadingSlash is returned by Parse when a non-empty string does not start
// with a slash.
var ErrNoLeadingSlash = errors.New("path must start with /")

// Of builds a path from keys.
func Of(keys ...string) Path {
	if len(keys) == 0 {
		return Root
	}
	return append(Path(nil), keys...)
}

// Child returns the path of the child with the given key. The result never
// shares its backing array with p.
func (p Path) Child(key string) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = key
	return c
}

// Parent returns the path of the parent and true, or nil and false for the
// root.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[: len(p)-1 : len(p)-1], true
}

// Last returns the last key, or "" for the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Len returns the number of keys.
func (p Path) Len() int { return len(p) }

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Equal reports whether two paths have the same keys.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is an ancestor of p or p itself.
func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && p[:len(q)].Equal(q)
}

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// String renders the path. The root is "", other paths are "/"-prefixed keys
// with "~" and "/" escaped as in JSON Pointer.
func (p Path) String() string {
	var sb strings.Builder
	for _, key := range p {
		sb.WriteByte('/')
		escaper.WriteString(&sb, key)
	}
	return sb.String()
}

// Parse is the inverse of String.
func Parse(s string) (Path, error) {
	if s == "" {
		return Root, nil
	}
	if s[0] != '/' {
		return nil, ErrNoLeadingSlash
	}
	parts := strings.Split(s[1:], "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		p[i] = unescaper.Replace(part)
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}
