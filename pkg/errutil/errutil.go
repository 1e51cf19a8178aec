// Package errutil contains helpers for combining errors.
package errutil

import "strings"

// Multi returns an error carrying all non-nil errors in errs, or nil if there
// are none. A single non-nil error is returned as is. Errors that were
// themselves returned by Multi are flattened into the result.
//
// The result works with errors.Is and errors.As.
func Multi(errs ...error) error {
	var all Errors
	for _, err := range errs {
		if m, ok := err.(Errors); ok {
			all = append(all, m...)
		} else if err != nil {
			all = append(all, err)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

// Errors is the type of errors returned by Multi when combining more than one
// error.
type Errors []error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

func (es Errors) Unwrap() []error { return es }
