package domain

import (
	"errors"
	"strings"
)

// ErrUnboundIndex is the sentinel wrapped by UnboundIndexError; test with
// errors.Is.
var ErrUnboundIndex = errors.New("unbound index")

// UnboundIndexError reports a filter (or template) referencing a dimension
// name that is not bound in the current tuple.
type UnboundIndexError struct {
	Name  string
	Bound []string
}

func (e *UnboundIndexError) Error() string {
	return "filter references unbound index \"" + e.Name + "\" (bound: " + strings.Join(e.Bound, ",") + ")"
}

func (e *UnboundIndexError) Unwrap() error { return ErrUnboundIndex }

// callUnbound runs f, converting a panic carrying *UnboundIndexError into a
// returned error. Other panics propagate.
func callUnbound(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ub, ok := r.(*UnboundIndexError); ok {
				err = ub
				return
			}
			panic(r)
		}
	}()
	return f()
}
