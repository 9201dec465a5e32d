package errors

import "fmt"

type BadArchiveError struct {
	filename string
	cause    error
}

func NewBadArchiveError(filename string, cause error) *BadArchiveError {
	return &BadArchiveError{
		filename: filename,
		cause:    cause,
	}
}

func (bae *BadArchiveError) Error() string {
	return fmt.Sprintf("Bad zip file: %s", bae.filename)
}

func (bae *BadArchiveError) Unwrap() error {
	return bae.cause
}

func (bae *BadArchiveError) Filename() string {
	return bae.filename
}

func (bae *BadArchiveError) BadArchive() {}
