package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes storage failure semantics across the hierarchy.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "validation"
	CodeNotFound        ErrorCode = "not_found"
	CodeConflict        ErrorCode = "conflict"
	CodeSaveFailed      ErrorCode = "save_failed"
	CodeUpdateFailed    ErrorCode = "update_failed"
	CodeDeleteFailed    ErrorCode = "delete_failed"
	CodeGetAllFailed    ErrorCode = "get_all_failed"
	CodeGetByIDFailed   ErrorCode = "get_by_id_failed"
	CodeCoinsLoadFailed ErrorCode = "coins_load_failed"
	CodeRetryable       ErrorCode = "retryable"
	CodeInternal        ErrorCode = "internal"
)

// Entity names the level of the hierarchy an error is about.
type Entity string

const (
	EntityCoin       Entity = "coin"
	EntityCollection Entity = "collection"
	EntityGroup      Entity = "group"
	EntityUser       Entity = "user"
)

// Error is the canonical storage error wrapper.
type Error struct {
	Code    ErrorCode
	Entity  Entity
	ID      string
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if op := strings.TrimSpace(e.Op); op != "" {
		b.WriteString(op)
	}
	if e.Entity != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("[")
		b.WriteString(string(e.Entity))
		if e.ID != "" {
			b.WriteString("=")
			b.WriteString(e.ID)
		}
		b.WriteString("]")
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(msg)
	}
	if b.Len() == 0 {
		return string(e.Code)
	}
	return fmt.Sprintf("%s (%s)", b.String(), e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// EntityError builds an error about one entity. The message is taken from
// cause when one is given.
func EntityError(code ErrorCode, entity Entity, id, op string, cause error) error {
	msg := string(code)
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Entity:  entity,
		ID:      strings.TrimSpace(id),
		Op:      strings.TrimSpace(op),
		Message: msg,
		Cause:   cause,
	}
}

// Wrap annotates an existing error with storage error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether the outermost storage error in err carries code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the outermost storage error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// EntityOf returns the entity and id of the outermost storage error.
func EntityOf(err error) (Entity, string) {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return "", ""
	}
	return aggErr.Entity, aggErr.ID
}
