package must

import (
	"errors"
	"testing"

	"github.com/wraith13/never-stop-watch/pkg/testutil"
)

var errBad = errors.New("bad")

func TestOK(t *testing.T) {
	if r := testutil.Recover(func() { OK(nil) }); r != nil {
		t.Errorf("OK(nil) panicked with %v", r)
	}
	if r := testutil.Recover(func() { OK(errBad) }); r != errBad {
		t.Errorf("OK(errBad) panicked with %v", r)
	}
	if v := OK1(42, nil); v != 42 {
		t.Errorf("OK1 -> %v", v)
	}
	if r := testutil.Recover(func() { OK1("x", errBad) }); r != errBad {
		t.Errorf("OK1 panicked with %v", r)
	}
	if a, b := OK2("a", 1, nil); a != "a" || b != 1 {
		t.Errorf("OK2 -> %v, %v", a, b)
	}
}

func TestPipe(t *testing.T) {
	r, w := Pipe()
	defer r.Close()
	OK1(w.WriteString("x"))
	w.Close()
	var buf [2]byte
	if n, _ := r.Read(buf[:]); n != 1 || buf[0] != 'x' {
		t.Errorf("read %q", buf[:n])
	}
}
