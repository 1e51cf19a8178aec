package store

import (
	"path/filepath"

	"github.com/wraith13/never-stop-watch/pkg/testutil"
)

// MustTemp returns a Store backed by a file in a temporary directory. The
// Store is closed and the directory removed when c cleans up. It panics on
// error and is only suitable for tests.
func MustTemp(c testutil.Cleanuper) *Store {
	dir := testutil.TempDir(c)
	st, err := Open(filepath.Join(dir, "nsw.db"))
	if err != nil {
		panic(err)
	}
	// Registered after TempDir, so it runs before the directory is removed.
	c.Cleanup(func() { st.Close() })
	return st
}
