package artifact

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrEmptyArtifact    = errors.New("artifact is empty")
	ErrKindMismatch     = errors.New("artifact kind mismatch")
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
	ErrVersion          = errors.New("unsupported artifact version")
)

// Error describes a failed artifact read or write.
type Error struct {
	Op   string // "read" or "write"
	Path string
	Kind string // expected kind, if known
	Err  error
}

func (e *Error) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s %s artifact %s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s artifact %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Err
}
