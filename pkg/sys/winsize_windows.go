package sys

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// There is no SIGWINCH on Windows; this value is never delivered.
const sigWINCH = syscall.Signal(-1)

func winSize(file *os.File) (rows, cols int) {
	var info windows.ConsoleScreenBufferInfo
	if windows.GetConsoleScreenBufferInfo(windows.Handle(file.Fd()), &info) != nil {
		return -1, -1
	}
	w := info.Window
	return int(w.Bottom-w.Top) + 1, int(w.Right-w.Left) + 1
}
