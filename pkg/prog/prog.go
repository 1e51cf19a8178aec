// Package prog provides the entry point to the stopwatch. Programs that
// implement Program are combined with Composite and run by Run, which parses
// the command-line flags they share.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/wraith13/never-stop-watch/pkg/diag"
	"github.com/wraith13/never-stop-watch/pkg/logutil"
)

// Flags keeps command-line flags.
type Flags struct {
	Log, CPUProfile string

	Help, Version, BuildInfo, JSON bool

	// RPC runs the JSON-RPC server on stdin and stdout instead of the
	// terminal host.
	RPC bool

	Config, DB, Tree string
}

func (f *Flags) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("nsw", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Log, "log", "", "a file to write debug log to")
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write cpu profile to file")
	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show version and quit")
	fs.BoolVar(&f.BuildInfo, "buildinfo", false, "show build info and quit")
	fs.BoolVar(&f.JSON, "json", false, "show output in JSON; useful with -buildinfo")
	fs.BoolVar(&f.RPC, "rpc", false, "serve JSON-RPC on stdin and stdout")
	fs.StringVar(&f.Config, "config", "", "path to the YAML configuration file")
	fs.StringVar(&f.DB, "db", "", "path to the document database")
	fs.StringVar(&f.Tree, "tree", "", "path to a JSON model tree to render")
	return fs
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: nsw [flags]")
	fmt.Fprintln(w, "Supported flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// Run parses the command-line flags in args[1:], handles the flags common to
// all programs and runs p. It returns the exit status.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	fs := f.flagSet()
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			// Only -h gets here, since -help is a defined flag.
			err = errors.New("flag provided but not defined: -h")
		}
		fmt.Fprintln(fds[2], err)
		usage(fds[2], fs)
		return 2
	}

	if stop := startProfile(fds[2], f.CPUProfile); stop != nil {
		defer stop()
	}
	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}
	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	err := p.Run(fds, f, fs.Args())
	if err == nil {
		return 0
	}
	if err.Error() != "" {
		diag.ShowError(fds[2], err)
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if errors.As(err, new(badUsageError)) {
		usage(fds[2], fs)
	}
	return 2
}

// startProfile starts CPU profiling to path if it is not empty. A failure is
// only a warning.
func startProfile(stderr io.Writer, path string) (stop func()) {
	if path == "" {
		return nil
	}
	out, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot create CPU profile:", err)
		fmt.Fprintln(stderr, "Continuing without CPU profiling.")
		return nil
	}
	if err := pprof.StartCPUProfile(out); err != nil {
		fmt.Fprintln(stderr, "Warning: cannot start CPU profile:", err)
		out.Close()
		return nil
	}
	return func() {
		pprof.StopCPUProfile()
		out.Close()
	}
}

// Program is a subprogram.
type Program interface {
	Run(fds [3]*os.File, f *Flags, args []string) error
}

// ErrNotSuitable is returned by a Program that does not handle the given flags.
// Composite moves on to the next program when it sees it.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// Composite returns a Program that runs the first of programs not returning
// ErrNotSuitable.
func Composite(programs ...Program) Program { return composite(programs) }

type composite []Program

func (c composite) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range c {
		if err := p.Run(fds, f, args); err != ErrNotSuitable {
			return err
		}
	}
	return ErrNotSuitable
}

// BadUsage returns an error that makes Run print msg and the usage, and exit
// with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns an error that makes Run exit with code silently. Exit(0) is nil.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return exitError{code}
}

type exitError struct{ code int }

func (exitError) Error() string { return "" }
