// Package imgops applies image directives: short strings such as
//
//	?hueshift=180?brightness=-100?scalenearest=2
//
// that describe a sequence of pixel transforms and compositing steps to run
// over a base image.
//
// Parse turns a directive string into a slice of Operation values and Print
// turns it back. References lists the images a sequence needs by name, and
// Apply runs a sequence over an *image.NRGBA, fetching those images through
// a caller supplied Resolver.
//
// Parsing never fails outright. A token that cannot be read becomes an
// ErrorOperation in its place, and the error only surfaces when that
// operation is applied:
//
//	ops := imgops.Parse("?hueshift=90?nosuchop")
//	_, err := imgops.Apply(ops, img, nil)
//	// err is an *OperationError for operation 1 wrapping ErrUnknownOperation
//
// Apply is synchronous and owns the image it is given. Independent calls
// may run concurrently, as ApplyAll does, provided the Resolver is safe for
// concurrent use.
package imgops
