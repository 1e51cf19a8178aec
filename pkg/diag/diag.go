// Package diag defines the diagnostics reported by the render engine.
//
// Diagnostics describe problems in a model tree or a descriptor set that do
// not stop rendering: the offending subtree is skipped or replaced by a
// placeholder and the rest of the tree renders normally. They are values
// passed to a Reporter, not errors returned to the caller.
package diag

import (
	"fmt"
	"log"

	"github.com/wraith13/never-stop-watch/pkg/keypath"
)

// Kind classifies a Diagnostic.
type Kind uint8

// Diagnostic kinds.
const (
	// A path was visited with a nil node.
	MissingData Kind = iota + 1
	// A node has an empty type tag.
	MissingType
	// No descriptor is registered for a node's type and there is no fallback.
	UnknownType
	// A child produced elements that were not attached to any container.
	OrphanedChild
)

var kindNames = map[Kind]string{
	MissingData:   "missing data",
	MissingType:   "missing type",
	UnknownType:   "unknown type",
	OrphanedChild: "orphaned child",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Diagnostic is one problem found during a render pass.
type Diagnostic struct {
	Kind Kind
	Path keypath.Path
	// Type is the node type involved, when known.
	Type    string
	Message string
}

// Error returns a plain text representation of the diagnostic.
func (d Diagnostic) Error() string {
	loc := d.Path.String()
	if loc == "" {
		loc = "/"
	}
	if d.Message == "" {
		return fmt.Sprintf("%s at %s", d.Kind, loc)
	}
	return fmt.Sprintf("%s at %s: %s", d.Kind, loc, d.Message)
}

// Show shows the diagnostic with a highlighted header, prefixing every line
// with indent.
func (d Diagnostic) Show(indent string) string {
	s := fmt.Sprintf("%s\033[33;1m%s\033[m at %s", indent, d.Kind, d.Path)
	if d.Type != "" {
		s += fmt.Sprintf(" (type %q)", d.Type)
	}
	if d.Message != "" {
		s += "\n" + indent + "  " + d.Message
	}
	return s
}

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// LogReporter returns a Reporter that writes diagnostics to a logger.
func LogReporter(l *log.Logger) Reporter {
	return ReporterFunc(func(d Diagnostic) { l.Println(d.Error()) })
}

// Discard is a Reporter that ignores all diagnostics.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Collector is a Reporter that keeps diagnostics in memory.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }

// Kinds returns the kinds of the collected diagnostics in order.
func (c *Collector) Kinds() []Kind {
	kinds := make([]Kind, len(c.Diagnostics))
	for i, d := range c.Diagnostics {
		kinds[i] = d.Kind
	}
	return kinds
}

// Reset clears the collected diagnostics.
func (c *Collector) Reset() { c.Diagnostics = nil }

// Tee returns a Reporter that forwards to every non-nil reporter.
func Tee(rs ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range rs {
			if r != nil {
				r.Report(d)
			}
		}
	})
}
