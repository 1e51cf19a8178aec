package elem

import (
	"fmt"
	"strings"
)

// Dump returns an indented outline of the tree rooted at e, one element per
// line:
//
//	screen.dark [style:background=#000]
//	  label "12:00"
//
// Classes follow the tag after dots, attributes and styles are listed in
// brackets with styles prefixed by "style:", and text is quoted.
func Dump(e *Element) string {
	var sb strings.Builder
	dump(&sb, e, 0)
	return sb.String()
}

func dump(sb *strings.Builder, e *Element, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(e.Tag)
	for _, class := range e.classes {
		sb.WriteString("." + class)
	}
	var props []string
	for _, k := range sortedKeys(e.attrs) {
		props = append(props, k+"="+e.attrs[k])
	}
	for _, k := range sortedKeys(e.style) {
		props = append(props, "style:"+k+"="+e.style[k])
	}
	if len(props) > 0 {
		fmt.Fprintf(sb, " [%s]", strings.Join(props, " "))
	}
	if e.text != "" {
		fmt.Fprintf(sb, " %q", e.text)
	}
	sb.WriteByte('\n')
	for _, c := range e.children {
		dump(sb, c, depth+1)
	}
}

// Lines returns the visible text of the tree: one line per element that has
// text, in document order, indented by nesting depth of text-bearing
// ancestors. Elements with the "hidden" attribute are skipped with their
// subtree.
func Lines(e *Element) []string {
	var lines []string
	var walk func(e *Element, depth int)
	walk = func(e *Element, depth int) {
		if _, hidden := e.Attr("hidden"); hidden {
			return
		}
		if e.text != "" {
			lines = append(lines, strings.Repeat("  ", depth)+e.text)
			depth++
		}
		for _, c := range e.children {
			walk(c, depth)
		}
	}
	walk(e, 0)
	return lines
}
