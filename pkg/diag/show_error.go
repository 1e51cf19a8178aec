package diag

import (
	"errors"
	"fmt"
	"io"
)

// ShowError writes err to w followed by a newline. An error that is or wraps a
// Shower is written in its highlighted form.
func ShowError(w io.Writer, err error) {
	var s Shower
	if errors.As(err, &s) {
		fmt.Fprintln(w, s.Show(""))
		return
	}
	fmt.Fprintln(w, err.Error())
}
