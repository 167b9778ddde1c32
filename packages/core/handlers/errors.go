package handlers

import (
	"core/models"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors to status codes. Anything unexpected is
// logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrImportFormat),
		errors.Is(err, models.ErrInvalidMatchInput),
		errors.Is(err, models.ErrInvalidPlayerName):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrUnknownPlayer):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Player not found",
		})
	case errors.Is(err, models.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Match not found",
		})
	case errors.Is(err, models.ErrPlayerExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
		})
	}
}

// queryInt reads a positive integer query parameter, capped at upper when
// upper is positive.
func queryInt(c *gin.Context, name string, def, upper int) (int, bool) {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || value < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}

	if upper > 0 && value > upper {
		value = upper
	}
	return value, true
}
