//go:build linux || solaris || darwin || dragonfly || freebsd || netbsd || openbsd

package host

import (
	"os"

	"github.com/wraith13/never-stop-watch/pkg/sys/eunix"
)

func makeRaw(f *os.File) (restore func() error, err error) {
	return eunix.MakeRaw(int(f.Fd()))
}
