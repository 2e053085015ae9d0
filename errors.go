package imgops

import (
	"errors"
	"fmt"
)

// Errors reported when building or applying operations. Use errors.Is to
// test for them; they usually arrive wrapped in a *ParseError or
// *OperationError.
var (
	// ErrUnknownOperation is reported for a directive token whose name is
	// not a known operation.
	ErrUnknownOperation = errors.New("imgops: unknown operation")

	// ErrMalformed is reported for a directive token whose parameters are
	// missing, surplus or unreadable.
	ErrMalformed = errors.New("imgops: malformed operation")

	// ErrInvalidParameter is reported when a parameter is outside the range
	// an operation accepts.
	ErrInvalidParameter = errors.New("imgops: invalid parameter")

	// ErrReferenceMissing is reported when an operation names an image the
	// resolver cannot supply.
	ErrReferenceMissing = errors.New("imgops: missing image reference")

	// ErrGeometry is reported for crop rectangles outside the image and for
	// non-positive scale factors.
	ErrGeometry = errors.New("imgops: invalid geometry")
)

// ParseError records the directive token that failed to parse.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v (in %q)", e.Err, e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OperationError records which operation of a sequence failed to apply.
// Token is the operation printed as a directive, without its '?'; it is
// empty for null and error operations.
type OperationError struct {
	Index int
	Kind  Kind
	Token string
	Err   error
}

func (e *OperationError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Token, e.Err)
	}
	return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
