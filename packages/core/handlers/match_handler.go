package handlers

import (
	"core/models"
	"core/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService *services.MatchService
}

func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func parseMatchIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid match index",
		})
		return 0, false
	}
	return index, true
}

// GetRecentMatches retrieves the N most recent matches
// @Summary Get recent matches
// @Description Get the N most recently recorded matches (newest first)
// @Tags matches
// @Produce json
// @Param limit query int false "Number of matches to retrieve (default: 10, max: 100)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/recent [get]
func (h *MatchHandler) GetRecentMatches(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10, 100)
	if !ok {
		return
	}

	matches, err := h.matchService.GetRecentMatches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve recent matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetMatches retrieves the whole match history
// @Summary Get match history
// @Description Get every match in history order together with its index. The index is what PUT and DELETE expect.
// @Tags matches
// @Produce json
// @Success 200 {array} models.HistoryEntry
// @Failure 500 {object} map[string]string
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	entries, err := h.matchService.GetMatches(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve matches")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetMatch retrieves one match by history index
// @Summary Get a match
// @Description Get the match at the given history index
// @Tags matches
// @Produce json
// @Param index path int true "History index (0-based)"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/{index} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	index, ok := parseMatchIndex(c)
	if !ok {
		return
	}

	match, err := h.matchService.GetMatchAt(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, "Failed to retrieve match")
		return
	}

	c.JSON(http.StatusOK, match)
}

// CreateMatch registers a new match
// @Summary Register a match
// @Description Record a singles or doubles result and update the ratings of every participant
// @Tags matches
// @Accept json
// @Produce json
// @Param match body models.MatchRecord true "Match data"
// @Success 201 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req models.MatchRecord

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	match, err := h.matchService.RegisterMatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create match")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// UpdateMatch overwrites a match in place
// @Summary Edit a match
// @Description Replace the match at the given history index. The new result is rated on top of the current ratings; the previous result is not reverted.
// @Tags matches
// @Accept json
// @Produce json
// @Param index path int true "History index (0-based)"
// @Param match body models.MatchRecord true "Match data"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/{index} [put]
func (h *MatchHandler) UpdateMatch(c *gin.Context) {
	index, ok := parseMatchIndex(c)
	if !ok {
		return
	}

	var req models.MatchRecord

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	match, err := h.matchService.EditMatch(c.Request.Context(), index, req)
	if err != nil {
		respondError(c, err, "Failed to update match")
		return
	}

	c.JSON(http.StatusOK, match)
}

// DeleteMatch removes a match from the history
// @Summary Delete a match
// @Description Remove the match at the given history index. Ratings are left as they are.
// @Tags matches
// @Produce json
// @Param index path int true "History index (0-based)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/{index} [delete]
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	index, ok := parseMatchIndex(c)
	if !ok {
		return
	}

	if err := h.matchService.DeleteMatch(c.Request.Context(), index); err != nil {
		respondError(c, err, "Failed to delete match")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Match deleted successfully",
	})
}
