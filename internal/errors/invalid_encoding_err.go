package errors

import "fmt"

// InvalidEncodingError is returned when an encoding name does not resolve
// to any known tokenizer configuration.
type InvalidEncodingError struct {
	encoding string
}

func NewInvalidEncodingError(encoding string) *InvalidEncodingError {
	return &InvalidEncodingError{
		encoding: encoding,
	}
}

func (iee *InvalidEncodingError) Error() string {
	return fmt.Sprintf("Invalid encoding: %s", iee.encoding)
}

func (iee *InvalidEncodingError) Encoding() string {
	return iee.encoding
}

func (iee *InvalidEncodingError) InvalidEncoding() {}
