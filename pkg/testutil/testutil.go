// Package testutil contains helpers shared by the tests of other packages.
package testutil

// Cleanuper is the part of [testing.TB] the helpers need, so that they can be
// used with fakes in tests of this package.
type Cleanuper interface {
	Cleanup(func())
}
