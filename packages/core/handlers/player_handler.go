package handlers

import (
	"core/models"
	"core/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

func parsePlayerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid player ID",
		})
		return 0, false
	}
	return uint(id), true
}

// CreatePlayer adds a player to the roster
// @Summary Create a player
// @Description Add a player to the roster. New players start at 1000 in both disciplines.
// @Tags players
// @Accept json
// @Produce json
// @Param player body models.CreatePlayerRequest true "Player data"
// @Success 201 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	player, err := h.playerService.CreatePlayer(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "Failed to create player")
		return
	}

	c.JSON(http.StatusCreated, player)
}

// GetPlayer retrieves a player by ID
// @Summary Get player by ID
// @Description Get player information by player ID
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := parsePlayerID(c)
	if !ok {
		return
	}

	player, err := h.playerService.GetPlayerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, player)
}

// GetEloHistory retrieves ELO history for a player
// @Summary Get player ELO history
// @Description Get singles and doubles rating changes for a specific player, oldest first
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.EloHistory
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/elo-history [get]
func (h *PlayerHandler) GetEloHistory(c *gin.Context) {
	id, ok := parsePlayerID(c)
	if !ok {
		return
	}

	// Check if player exists
	if _, err := h.playerService.GetPlayerByID(c.Request.Context(), id); err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	eloHistory, err := h.playerService.GetEloHistoryByPlayerID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve ELO history")
		return
	}

	c.JSON(http.StatusOK, eloHistory)
}

// GetPlayerMatches retrieves matches for a specific player with pagination
// @Summary Get matches for a player
// @Description Get matches a player took part in, newest first, optionally limited to one discipline
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Param type query string false "Discipline filter" Enums(singles,doubles)
// @Param page query int false "Page number (default: 1, max: 100000)"
// @Param pageSize query int false "Number of matches per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedMatchResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/matches [get]
func (h *PlayerHandler) GetPlayerMatches(c *gin.Context) {
	id, ok := parsePlayerID(c)
	if !ok {
		return
	}

	if _, err := h.playerService.GetPlayerByID(c.Request.Context(), id); err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	var matchType string
	if raw := c.Query("type"); raw != "" {
		parsed, err := models.ParseMatchType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid type parameter",
			})
			return
		}
		matchType = string(parsed)
	}

	page, ok := queryInt(c, "page", 1, services.MaxPage)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 10, services.MaxPageSize)
	if !ok {
		return
	}

	paginatedResponse, err := h.playerService.GetPlayerMatches(c.Request.Context(), id, matchType, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to retrieve player matches")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse)
}

// GetAllPlayers retrieves all players with pagination and sorting
// @Summary Get all players
// @Description Get all players with pagination and sorting options
// @Tags players
// @Produce json
// @Param orderBy query string false "Sort field: 'created_at', 'elo_singles', 'elo_doubles', 'name' (default: 'created_at')"
// @Param direction query string false "Sort direction: 'ASC' or 'DESC' (default: 'DESC')"
// @Param page query int false "Page number (default: 1, max: 100000)"
// @Param pageSize query int false "Number of players per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedPlayersResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) GetAllPlayers(c *gin.Context) {
	orderBy := c.DefaultQuery("orderBy", "created_at")
	direction := c.DefaultQuery("direction", "DESC")

	page, ok := queryInt(c, "page", 1, services.MaxPage)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 10, services.MaxPageSize)
	if !ok {
		return
	}

	paginatedResponse, err := h.playerService.GetAllPlayers(c.Request.Context(), orderBy, direction, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to retrieve players")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse)
}

// GetRanking returns the leaderboard of one discipline
// @Summary Get ranking
// @Description Players ordered by rating (highest first) for singles or doubles. Equal ratings keep roster order.
// @Tags rankings
// @Produce json
// @Param type path string true "Discipline" Enums(singles,doubles)
// @Success 200 {array} models.RankingEntry
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /rankings/{type} [get]
func (h *PlayerHandler) GetRanking(c *gin.Context) {
	matchType, err := models.ParseMatchType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ranking type",
		})
		return
	}

	ranking, err := h.playerService.GetRanking(c.Request.Context(), matchType)
	if err != nil {
		respondError(c, err, "Failed to retrieve ranking")
		return
	}

	c.JSON(http.StatusOK, ranking)
}
