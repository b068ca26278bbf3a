package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	log    *logger.Logger
	auth   services.AuthService
	cookie CookieConfig
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "sessionId"
	}
	return &AuthHandler{log: log.With("handler", "AuthHandler"), auth: auth, cookie: cookie}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.setSessionCookie(c, res)
	response.RespondOK(c, gin.H{"userId": res.User.ID})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.setSessionCookie(c, res)
	response.RespondOK(c, gin.H{"userId": res.User.ID})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.RespondNoContent(c)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, res *services.AuthResult) {
	maxAge := int(h.auth.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, res.Token, maxAge, "/", "", h.cookie.Secure, true)
}
