package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RequestValidationError marks a request body that failed validation, so the
// error handler can answer 400 instead of 500.
type RequestValidationError struct {
	Err error
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *RequestValidationError) Unwrap() error { return e.Err }

func ValidateRequest(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		return &RequestValidationError{Err: err}
	}
	return nil
}
