// Package event defines the abstract event kinds dispatched to rendered nodes
// and the index that maps each kind to the paths that handle it.
package event

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wraith13/never-stop-watch/pkg/keypath"
)

// Kind names a source of events. The set is small and fixed; see Kinds.
type Kind string

// Event kinds.
const (
	// Fast periodic tick, used for sub-second displays.
	HighResolutionTimer Kind = "high-resolution-timer"
	// Slow periodic tick.
	Timer Kind = "timer"
	Scroll Kind = "scroll"
	Focus  Kind = "focus"
	Blur   Kind = "blur"
	// The persistent store was changed by another writer.
	Storage Kind = "storage"
	// A user-initiated operation.
	Operate Kind = "operate"
	// The terminal was resized.
	Resize Kind = "resize"
)

var kinds = []Kind{HighResolutionTimer, Timer, Scroll, Focus, Blur, Storage, Operate, Resize}

// Kinds returns all event kinds.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

// ErrUnknownKind is returned by Parse for names that are not event kinds.
var ErrUnknownKind = errors.New("unknown event kind")

// Parse converts a name to a Kind.
func Parse(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, err := Parse(string(k))
	return err == nil
}

// Index maps event kinds to the paths registered for them, in registration
// order. The zero value is an empty index ready to use.
//
// The render engine rebuilds the index on every pass, registering nodes in
// depth-first pre-order, so Paths returns paths in tree order.
type Index struct {
	paths map[Kind][]keypath.Path
}

// Register adds path to the list of kind.
func (ix *Index) Register(kind Kind, path keypath.Path) {
	if ix.paths == nil {
		ix.paths = make(map[Kind][]keypath.Path)
	}
	ix.paths[kind] = append(ix.paths[kind], path)
}

// Paths returns the paths registered for kind. The returned slice is a copy.
func (ix *Index) Paths(kind Kind) []keypath.Path {
	return append([]keypath.Path(nil), ix.paths[kind]...)
}

// Len returns the number of paths registered for kind.
func (ix *Index) Len(kind Kind) int { return len(ix.paths[kind]) }

// Kinds returns the kinds with at least one registered path, sorted.
func (ix *Index) Kinds() []Kind {
	var ks []Kind
	for k, ps := range ix.paths {
		if len(ps) > 0 {
			ks = append(ks, k)
		}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// Reset removes all registrations.
func (ix *Index) Reset() { ix.paths = nil }
