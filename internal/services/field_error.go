package services

import "errors"

// FieldError is a local validation failure tied to one form field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return e.Err }

// Fields returns per-field messages for a local FieldError, or nil.
func Fields(err error) map[string]string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return map[string]string{fe.Field: fe.Message}
	}
	return nil
}
