// Package tt supports table-driven tests with little boilerplate.
//
// A test is a function under test plus a list of cases:
//
//	tt.Test(t, tt.Fn("Parse", keypath.Parse),
//		tt.Args("/a").Rets(keypath.Of("a"), nil),
//		tt.Args("a").Rets(tt.Any, keypath.ErrNoLeadingSlash),
//	)
package tt

import (
	"fmt"
	"reflect"
	"strings"
)

// Case is one test case. It is created by Args and augmented by Rets.
type Case struct {
	args     []any
	matchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets adds a set of expected return values and returns the receiver. Each
// value may be a Matcher; otherwise reflect.DeepEqual decides the match. Rets
// may be called more than once, in which case every set must match.
func (c *Case) Rets(matchers ...any) *Case {
	c.matchers = append(c.matchers, matchers)
	return c
}

// FnUnderTest describes a function to test.
type FnUnderTest struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn wraps a function with the name used in error messages.
func Fn(name string, body any) *FnUnderTest { return &FnUnderTest{name: name, body: body} }

// ArgsFmt sets the format used for arguments in error messages.
func (fn *FnUnderTest) ArgsFmt(s string) *FnUnderTest {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the format used for return values in error messages.
func (fn *FnUnderTest) RetsFmt(s string) *FnUnderTest {
	fn.retsFmt = s
	return fn
}

// T is the subset of testing.TB used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls fn with the arguments of each case and checks the return values.
func Test(t T, fn *FnUnderTest, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		rets := call(fn.body, c.args)
		for _, want := range c.matchers {
			if match(want, rets) {
				continue
			}
			t.Errorf("%s(%s) -> %s, want %s", fn.name,
				format(fn.argsFmt, c.args, false),
				format(fn.retsFmt, rets, true),
				format(fn.retsFmt, want, true))
		}
	}
}

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Any matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// ErrorIs matches an error that is identical to err or has the same message.
// ErrorIs(nil) matches a nil error.
func ErrorIs(err error) Matcher { return errorMatcher{err} }

type errorMatcher struct{ want error }

func (m errorMatcher) Match(v RetValue) bool {
	err, _ := v.(error)
	if err == nil || m.want == nil {
		return err == nil && m.want == nil
	}
	return err == m.want || err.Error() == m.want.Error()
}

func match(matchers, rets []any) bool {
	if len(matchers) != len(rets) {
		return false
	}
	for i, m := range matchers {
		if m, ok := m.(Matcher); ok {
			if !m.Match(rets[i]) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(m, rets[i]) {
			return false
		}
	}
	return true
}

func format(f string, vs []any, parenMulti bool) string {
	if f != "" {
		return fmt.Sprintf(f, vs...)
	}
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%#v", v)
	}
	if parenMulti && len(vs) != 1 {
		return "(" + sb.String() + ")"
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg != nil {
			in[i] = reflect.ValueOf(arg)
			continue
		}
		// An untyped nil becomes the zero value of the parameter type.
		var t reflect.Type
		if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
			t = fnType.In(fnType.NumIn() - 1).Elem()
		} else {
			t = fnType.In(i)
		}
		in[i] = reflect.Zero(t)
	}
	out := fnValue.Call(in)
	rets := make([]any, len(out))
	for i, v := range out {
		rets[i] = v.Interface()
	}
	return rets
}
