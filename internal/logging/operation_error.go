package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// OperationError records which vision operation failed and, when the service
// supplied one, its error code.
type OperationError struct {
	Operation string
	Code      string
	Err       error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError wraps err with the operation name and service code.
// It returns nil for a nil err.
func NewOperationError(operation, code string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, Code: code, Err: err}
}

// OperationFields returns the log fields for the first OperationError in
// err's chain, followed by the error itself.
func OperationFields(err error) []zap.Field {
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		return []zap.Field{zap.Error(err)}
	}
	fields := []zap.Field{zap.String("operation", opErr.Operation)}
	if opErr.Code != "" {
		fields = append(fields, zap.String("error_code", opErr.Code))
	}
	return append(fields, zap.Error(opErr.Err))
}
