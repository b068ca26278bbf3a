package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type CollectionHandler struct {
	log     *logger.Logger
	library services.LibraryService
}

func NewCollectionHandler(log *logger.Logger, library services.LibraryService) *CollectionHandler {
	return &CollectionHandler{log: log.With("handler", "CollectionHandler"), library: library}
}

// POST /api/collections
func (h *CollectionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in := services.CollectionInput{Name: req.Name, GroupID: req.GroupID}
	for _, coin := range req.Coins {
		in.Coins = append(in.Coins, coin.spec(""))
	}
	created, err := h.library.CreateCollection(c.Request.Context(), userID, in)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, collectionResponse(created))
}

// GET /api/collections/:id
func (h *CollectionHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	col, err := h.library.GetCollection(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, collectionResponse(col))
}

// PATCH /api/collections/:id
func (h *CollectionHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req patchCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	col, err := h.library.UpdateCollection(c.Request.Context(), userID, c.Param("id"), services.CollectionPatch{
		Name:    req.Name,
		GroupID: req.GroupID,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, collectionResponse(col))
}

// DELETE /api/collections/:id removes the collection and its coins.
func (h *CollectionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.library.DeleteCollection(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}
