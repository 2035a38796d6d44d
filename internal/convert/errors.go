package convert

import "errors"

// ErrMalformed indicates input that cannot be converted.
var ErrMalformed = errors.New("convert: malformed input")
