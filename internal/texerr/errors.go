// Package texerr holds the error kinds shared by the texture packages.
// Call sites wrap one of these with fmt.Errorf("%w: ...") and callers
// classify failures with errors.Is.
package texerr

import "errors"

var (
	// ErrInvalidArgument reports a malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidData reports structurally malformed binary data.
	ErrInvalidData = errors.New("invalid data")
	// ErrNotSupported reports well-formed data using a feature this codec does not implement.
	ErrNotSupported = errors.New("not supported")
	// ErrUnexpectedEndOfData reports a buffer shorter than its layout implies.
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")
	// ErrArithmeticOverflow reports a byte count outside the addressable range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrOutOfMemory        = errors.New("out of memory")
	// ErrCannotMake reports a header that cannot be expressed with the requested encoding.
	ErrCannotMake = errors.New("cannot make")
	ErrFail       = errors.New("fail")
)

// Kind returns the sentinel wrapped by err, or nil when err is not one of ours.
func Kind(err error) error {
	for _, k := range []error{
		ErrInvalidArgument,
		ErrInvalidData,
		ErrNotSupported,
		ErrUnexpectedEndOfData,
		ErrArithmeticOverflow,
		ErrOutOfMemory,
		ErrCannotMake,
		ErrFail,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
