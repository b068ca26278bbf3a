package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// currentUser returns the authenticated caller or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return "", false
	}
	return rd.UserID, true
}

func respondErr(c *gin.Context, log *logger.Logger, err error) {
	ae := response.RespondAPIError(c, err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "code", ae.Code, "error", err)
	}
}
