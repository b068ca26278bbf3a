package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type CoinHandler struct {
	log     *logger.Logger
	library services.LibraryService
}

func NewCoinHandler(log *logger.Logger, library services.LibraryService) *CoinHandler {
	return &CoinHandler{log: log.With("handler", "CoinHandler"), library: library}
}

// POST /api/coins
func (h *CoinHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req coinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	coin, err := h.library.AddCoin(c.Request.Context(), userID, req.spec(req.CollectionID))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, coinResponse(coin))
}

// GET /api/coins/:id
func (h *CoinHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	coin, err := h.library.GetCoin(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, coinResponse(coin))
}

// PATCH /api/coins/:id may change the coin id when its attributes change.
func (h *CoinHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req patchCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	coin, err := h.library.UpdateCoin(c.Request.Context(), userID, c.Param("id"), req.patch())
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, coinResponse(coin))
}

// DELETE /api/coins/:id
func (h *CoinHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.library.DeleteCoin(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}
