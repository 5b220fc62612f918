package service

import "fmt"

// Error codes surfaced to the boundary layer.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeStorage    = "STORAGE_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error { return b.Err }

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewNotFound(id int64) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("task %d not found", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewStorageError(op string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStorage,
		Message: fmt.Sprintf("storage failure during %s", op),
		Details: map[string]any{
			"operation": op,
		},
		Err: err,
	}
}
