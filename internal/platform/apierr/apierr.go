package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From converts any error into an API error. Storage errors are mapped by
// code: not_found → 404, conflict → 409, everything else → 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	switch code {
	case domainagg.CodeNotFound:
		return New(http.StatusNotFound, string(code), errors.New("resource not found"))
	case domainagg.CodeConflict:
		return New(http.StatusConflict, string(code), errors.New("resource already exists"))
	case "":
		return New(http.StatusInternalServerError, "internal", errors.New("internal server error"))
	default:
		return New(http.StatusInternalServerError, string(code), errors.New("internal server error"))
	}
}
