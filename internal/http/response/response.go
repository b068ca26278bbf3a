package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/platform/apierr"
)

// errorCodeKey holds the code of the error envelope written for a request,
// read back by the access log and request metrics.
const errorCodeKey = "response.error_code"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func Envelope(code string, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	c.Set(errorCodeKey, code)
	c.JSON(status, Envelope(code, err))
}

// AbortError writes the envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, code string, err error) {
	c.Set(errorCodeKey, code)
	c.AbortWithStatusJSON(status, Envelope(code, err))
}

// ErrorCode returns the code of the error envelope written for c, if any.
func ErrorCode(c *gin.Context) string {
	return c.GetString(errorCodeKey)
}

// RespondAPIError maps err through apierr.From and writes the envelope.
// It returns the mapped error so callers can log server failures.
func RespondAPIError(c *gin.Context, err error) *apierr.Error {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
	return ae
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
