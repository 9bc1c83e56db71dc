package model

import "errors"

// ValidationError reports a field that failed validation while a record was
// being constructed.  Handlers translate it into a 400 response and pass
// Msg to the client unchanged.
type ValidationError struct {
	Field string // name of the offending field as it appears in request bodies
	Msg   string // human readable explanation
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
