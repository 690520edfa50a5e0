package navis

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/SridharJagannathan/navis/blobstore"
	"github.com/SridharJagannathan/navis/swc"
)

var (
	// ErrNotFound is returned when a requested source or neuron does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptySource is returned when a source yields no neurons.
	ErrEmptySource = errors.New("source contains no neurons")
)

// ReadError wraps a failure while importing from a named source.
//
// The original underlying error can be accessed via errors.Unwrap.
type ReadError struct {
	Source string
	cause  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Source, e.cause)
}

func (e *ReadError) Unwrap() error { return e.cause }

// WriteError wraps a failure while exporting to a named target.
//
// The original underlying error can be accessed via errors.Unwrap.
type WriteError struct {
	Target string
	cause  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Target, e.cause)
}

func (e *WriteError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, swc.ErrEmpty) {
		return fmt.Errorf("%w: %w", ErrEmptySource, err)
	}

	return err
}
