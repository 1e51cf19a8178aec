// Package env keeps names of environment variables with special significance to
// the stopwatch.
package env

// Environment variables with special significance to the stopwatch.
//
// Note that some of these env vars may be significant only in special
// circumstances, such as when running unit tests.
const (
	// Overrides the path of the configuration file.
	NSW_CONFIG = "NSW_CONFIG"
	// Overrides the path of the document database.
	NSW_DB = "NSW_DB"
	// Scales timeouts in tests. See testutil.Scaled.
	NSW_TEST_TIME_SCALE = "NSW_TEST_TIME_SCALE"
	HOME                = "HOME"
	TERM                = "TERM"
	XDG_CONFIG_HOME     = "XDG_CONFIG_HOME"
	XDG_DATA_HOME       = "XDG_DATA_HOME"
)
