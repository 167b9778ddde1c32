package handlers

import (
	"core/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyService *services.HistoryService
	matchService   *services.MatchService
}

func NewHistoryHandler(historyService *services.HistoryService, matchService *services.MatchService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		matchService:   matchService,
	}
}

// ImportResponse is returned after a successful import.
type ImportResponse struct {
	Imported   int  `json:"imported" example:"12"`
	Recomputed bool `json:"recomputed" example:"true"`
}

// ExportHistory downloads the match history
// @Summary Export match history
// @Description Download the whole history as a JSON array of {type, players, sets}
// @Tags history
// @Produce json
// @Success 200 {array} models.MatchRecord
// @Failure 500 {object} map[string]string
// @Router /matches/export [get]
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	data, err := h.historyService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export history")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="padel-history.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportHistory replaces the match history
// @Summary Import match history
// @Description Replace the whole history with an exported document. Legacy "1v1"/"2v2" types are accepted. Nothing changes if any match is invalid. Rating changes of the replaced matches are removed; they are rebuilt only when recompute is set.
// @Tags history
// @Accept json
// @Produce json
// @Param recompute query bool false "Replay the imported history to rebuild ratings (default: false)"
// @Param history body []models.MatchRecord true "History document"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/import [post]
func (h *HistoryHandler) ImportHistory(c *gin.Context) {
	recompute, err := strconv.ParseBool(c.DefaultQuery("recompute", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid recompute parameter",
		})
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	imported, err := h.historyService.Import(c.Request.Context(), data, recompute)
	if err != nil {
		respondError(c, err, "Failed to import history")
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Imported:   imported,
		Recomputed: recompute,
	})
}

// RecomputeRatings rebuilds every rating from the history
// @Summary Recompute ratings
// @Description Reset every player to 1000 and replay the whole history in order
// @Tags history
// @Produce json
// @Success 200 {array} models.Player
// @Failure 500 {object} map[string]string
// @Router /ratings/recompute [post]
func (h *HistoryHandler) RecomputeRatings(c *gin.Context) {
	players, err := h.matchService.RecomputeRatings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to recompute ratings")
		return
	}

	c.JSON(http.StatusOK, players)
}
