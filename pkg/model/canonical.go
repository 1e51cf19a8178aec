package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/wraith13/never-stop-watch/pkg/hash"
)

// Fingerprinter is implemented by data values that define their own
// canonical encoding. Two values with the same encoding are treated as equal
// and must produce identical retained output.
type Fingerprinter interface {
	AppendFingerprint(b []byte) []byte
}

// Canonical returns the canonical encoding of v. Map keys are sorted, nodes
// are encoded with their children in render order, and values implementing
// Fingerprinter encode themselves. Other values use their JSON encoding; a
// value that cannot be encoded is an error.
func Canonical(v any) ([]byte, error) {
	return AppendCanonical(nil, v)
}

// AppendCanonical appends the canonical encoding of v to b.
func AppendCanonical(b []byte, v any) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return append(b, "null"...), nil
	case Fingerprinter:
		return v.AppendFingerprint(b), nil
	case *Node:
		return appendNode(b, v)
	case bool:
		return strconv.AppendBool(b, v), nil
	case string:
		return strconv.AppendQuote(b, v), nil
	case int:
		return strconv.AppendInt(b, int64(v), 10), nil
	case int64:
		return strconv.AppendInt(b, v, 10), nil
	case float64:
		return appendFloat(b, v), nil
	case []any:
		b = append(b, '[')
		for i, elem := range v {
			if i > 0 {
				b = append(b, ',')
			}
			var err error
			if b, err = AppendCanonical(b, elem); err != nil {
				return nil, err
			}
		}
		return append(b, ']'), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b = append(b, '{')
		for i, k := range keys {
			if i > 0 {
				b = append(b, ',')
			}
			b = strconv.AppendQuote(b, k)
			b = append(b, ':')
			var err error
			if b, err = AppendCanonical(b, v[k]); err != nil {
				return nil, err
			}
		}
		return append(b, '}'), nil
	default:
		j, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return append(b, j...), nil
	}
}

// Integral floats encode like integers, so 1 and 1.0 compare equal.
func appendFloat(b []byte, f float64) []byte {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.AppendInt(b, int64(f), 10)
	}
	return strconv.AppendFloat(b, f, 'g', -1, 64)
}

func appendNode(b []byte, n *Node) ([]byte, error) {
	if n == nil {
		return append(b, "null"...), nil
	}
	b = append(b, `{"type":`...)
	b = strconv.AppendQuote(b, n.Type)
	b = append(b, `,"data":`...)
	b, err := AppendCanonical(b, n.Data)
	if err != nil {
		return nil, err
	}
	if n.Children != nil {
		if n.Children.list {
			b = append(b, `,"list":[`...)
		} else {
			b = append(b, `,"keyed":[`...)
		}
		for i, key := range n.Children.keys {
			if i > 0 {
				b = append(b, ',')
			}
			b = strconv.AppendQuote(b, key)
			b = append(b, ',')
			if b, err = appendNode(b, n.Children.nodes[key]); err != nil {
				return nil, err
			}
		}
		b = append(b, ']')
	}
	return append(b, '}'), nil
}

// Fingerprint identifies the inputs that produced a node's retained state:
// its type, its data and the data it reads from other paths.
type Fingerprint struct {
	sum   uint32
	canon string
}

// NewFingerprint computes the fingerprint of a node's type, data and external
// data.
func NewFingerprint(typ string, data any, external []any) (Fingerprint, error) {
	b := strconv.AppendQuote(nil, typ)
	b = append(b, ',')
	b, err := AppendCanonical(b, data)
	if err != nil {
		return Fingerprint{}, err
	}
	for _, v := range external {
		b = append(b, ',')
		if b, err = AppendCanonical(b, v); err != nil {
			return Fingerprint{}, err
		}
	}
	return Fingerprint{hash.Bytes(b), string(b)}, nil
}

// Equal reports whether two fingerprints are identical.
func (f Fingerprint) Equal(g Fingerprint) bool {
	return f.sum == g.sum && f.canon == g.canon
}

// IsZero reports whether f is the zero Fingerprint.
func (f Fingerprint) IsZero() bool { return f.canon == "" }

// String returns the canonical encoding behind the fingerprint.
func (f Fingerprint) String() string { return f.canon }

// Equal reports whether two values have the same canonical encoding. Values
// that cannot be encoded are never equal.
func Equal(a, b any) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	return err == nil && string(ca) == string(cb)
}
