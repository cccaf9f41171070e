package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying load failures with errors.Is.
var (
	ErrTransport   = errors.New("dataset source unreachable")
	ErrEmptyResult = errors.New("no valid entries in dataset")
	ErrMalformed   = errors.New("malformed dataset")
)

// ErrorKind is a coarse classification of a load failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindEmpty     ErrorKind = "empty"
	KindMalformed ErrorKind = "malformed"
)

// LoadError reports a failed load attempt. Load errors are terminal for the
// attempt; the loader never retries.
type LoadError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("load %s: %s", e.Source, e.Kind)
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel error corresponding to the error's kind.
func (e *LoadError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrEmptyResult:
		return e.Kind == KindEmpty
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// IsKind reports whether err is a *LoadError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind == kind
	}
	return false
}

// classify wraps a fetch error into a *LoadError, keeping an existing
// classification when the fetcher already produced one.
func classify(source string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	kind := KindTransport
	if errors.Is(err, ErrMalformed) {
		kind = KindMalformed
	}
	return &LoadError{Source: source, Kind: kind, Err: err}
}

var errEmptySource = errors.New("no source given")

func unknownScheme(scheme string) error {
	return fmt.Errorf("unsupported source scheme %q", scheme)
}
