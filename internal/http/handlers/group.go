package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type GroupHandler struct {
	log     *logger.Logger
	library services.LibraryService
}

func NewGroupHandler(log *logger.Logger, library services.LibraryService) *GroupHandler {
	return &GroupHandler{log: log.With("handler", "GroupHandler"), library: library}
}

// GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	groups, err := h.library.ListGroups(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse(g))
	}
	response.RespondOK(c, out)
}

// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	g, err := h.library.CreateGroup(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, groupResponse(g))
}

// GET /api/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	g, err := h.library.GetGroup(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, groupResponse(g))
}

// PATCH /api/groups/:id
func (h *GroupHandler) Rename(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	g, err := h.library.RenameGroup(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, groupResponse(g))
}

// DELETE /api/groups/:id removes the group with all collections and coins.
func (h *GroupHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.library.DeleteGroup(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}
