package handlers

import (
	"core/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EloHistoryHandler struct {
	eloHistoryService *services.EloHistoryService
}

func NewEloHistoryHandler(eloHistoryService *services.EloHistoryService) *EloHistoryHandler {
	return &EloHistoryHandler{
		eloHistoryService: eloHistoryService,
	}
}

// GetRecentEloChanges retrieves recent ELO changes for all players
// @Summary Get recent ELO changes
// @Description Get recent singles and doubles rating changes for all players (newest first)
// @Tags elo-history
// @Produce json
// @Param limit query int false "Number of ELO changes to retrieve (default: 10, max: 100)"
// @Success 200 {array} models.EloHistory
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /elo-history/recent [get]
func (h *EloHistoryHandler) GetRecentEloChanges(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10, 100)
	if !ok {
		return
	}

	eloChanges, err := h.eloHistoryService.GetRecentEloChanges(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve recent ELO changes")
		return
	}

	c.JSON(http.StatusOK, eloChanges)
}
