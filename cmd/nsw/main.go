// Command nsw renders a model tree on the terminal and keeps it up to date
// with clock ticks, key presses and changes to its document store. With -rpc
// it serves the render engine over JSON-RPC on stdin and stdout instead.
package main

import (
	"os"

	"github.com/wraith13/never-stop-watch/pkg/buildinfo"
	"github.com/wraith13/never-stop-watch/pkg/host"
	"github.com/wraith13/never-stop-watch/pkg/prog"
	"github.com/wraith13/never-stop-watch/pkg/rpc"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, rpc.Program, host.Program)))
}
