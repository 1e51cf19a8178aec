// Package sys wraps the terminal and signal facilities used by the host so
// that callers see the same API on every OS.
//
// The subpackage eunix provides Unix-specific utilities.
package sys

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 16

// NotifySignals returns a channel on which the given signals get delivered,
// and a function that stops the delivery.
func NotifySignals(sigs ...os.Signal) (<-chan os.Signal, func()) {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, sigs...)
	return sigCh, func() { signal.Stop(sigCh) }
}

// SIGWINCH is the window size change signal.
const SIGWINCH = sigWINCH

// WinSize queries the size of the terminal referenced by the given file. It
// returns -1, -1 if the file is not a terminal.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
