package testutil

import "os"

// Setenv sets an environment variable until the test finishes, and returns
// value.
func Setenv(c Cleanuper, name, value string) string {
	restoreEnv(c, name)
	os.Setenv(name, value)
	return value
}

// Unsetenv unsets an environment variable until the test finishes.
func Unsetenv(c Cleanuper, name string) {
	restoreEnv(c, name)
	os.Unsetenv(name)
}

func restoreEnv(c Cleanuper, name string) {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}
