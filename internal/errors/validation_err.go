package errors

import "fmt"

type ValidationError struct {
	message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{
		message: msg,
	}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		message: fmt.Sprintf(format, args...),
	}
}

func (ve *ValidationError) Error() string {
	return ve.message
}

func (ve *ValidationError) Validation() {}
