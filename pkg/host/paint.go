package host

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wraith13/never-stop-watch/pkg/elem"
	"github.com/wraith13/never-stop-watch/pkg/render"
	"github.com/wraith13/never-stop-watch/pkg/sys"
)

// VT100 sequences used by the painter.
const (
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// painter writes the visible text of the rendered tree to a writer.
//
// On a terminal it repaints the whole screen and crops the frame to the
// terminal height. Otherwise it writes a frame each time the text changes,
// which keeps piped output readable.
type painter struct {
	out       io.Writer
	file      *os.File
	tty       bool
	maxHeight int

	last    string
	painted bool
}

func newPainter(out io.Writer, maxHeight int) *painter {
	p := &painter{out: out, maxHeight: maxHeight}
	if f, ok := out.(*os.File); ok {
		p.file = f
		p.tty = sys.IsATTY(f.Fd())
	}
	return p
}

// frame returns the text of h, cropped to the available size.
func (p *painter) frame(h *render.Handle) string {
	var lines []string
	if h != nil {
		for _, e := range h.Elements {
			lines = append(lines, elem.Lines(e)...)
		}
	}
	height, width := p.size()
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	if width > 0 {
		for i, line := range lines {
			lines[i] = runewidth.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// size returns the maximal number of lines and columns of a frame; zero means
// no limit.
func (p *painter) size() (height, width int) {
	height = p.maxHeight
	if p.tty {
		rows, cols := sys.WinSize(p.file)
		if rows > 0 && (height <= 0 || rows < height) {
			height = rows
		}
		width = max(cols, 0)
	}
	return height, width
}

// paint writes the frame of h if it differs from the last one written, or
// unconditionally if full is true.
func (p *painter) paint(h *render.Handle, full bool) error {
	text := p.frame(h)
	if p.painted && text == p.last && !full {
		return nil
	}
	p.last, p.painted = text, true
	var sb strings.Builder
	if p.tty {
		sb.WriteString(hideCursor + clearScreen)
		sb.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
	} else {
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(p.out, sb.String())
	return err
}

// finish restores the cursor on a terminal.
func (p *painter) finish() error {
	if !p.tty {
		return nil
	}
	_, err := io.WriteString(p.out, "\r\n"+showCursor)
	return err
}
