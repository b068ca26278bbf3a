package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/apierr"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type SessionAuth struct {
	log        *logger.Logger
	auth       services.AuthService
	cookieName string
}

func NewSessionAuth(log *logger.Logger, auth services.AuthService, cookieName string) *SessionAuth {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = "sessionId"
	}
	return &SessionAuth{
		log:        log.With("middleware", "SessionAuth"),
		auth:       auth,
		cookieName: cookieName,
	}
}

// RequireSession rejects requests without a live session and attaches the
// caller to the request context.
func (m *SessionAuth) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessionToken(c)
		rd, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			ae := apierr.From(err)
			if ae.Status >= 500 {
				m.log.Error("Session lookup failed", "error", err)
			}
			response.AbortError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		attachCaller(c, rd)
		c.Next()
	}
}

// sessionToken reads the session cookie and falls back to a bearer token.
func (m *SessionAuth) sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(m.cookieName); err == nil && v != "" {
		return v
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
