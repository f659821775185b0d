package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartfare-backend/models"
)

// HealthSearch handles GET /api/health: a live search probe with default
// route and date so deployments can be checked without a request body.
func HealthSearch(c *gin.Context) {
	params := models.SearchParams{
		From:       c.DefaultQuery("from", "Torino"),
		To:         c.DefaultQuery("to", "Milano"),
		Date:       c.DefaultQuery("date", "2026-03-01"),
		Passengers: 1,
	}

	result, err := searchService.Search(c.Request.Context(), params)
	if err != nil {
		respondSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DBStats handles GET /api/health/db-stats.
func DBStats(c *gin.Context) {
	stats, err := searchService.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Errore stats DB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Errore durante le statistiche",
			"message": "database non disponibile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"database":   databaseName,
		"collection": collectionName,
		"stats":      stats,
	})
}

// ListTrains handles GET /api/health/trains with page/limit pagination.
func ListTrains(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	result, err := searchService.Trains(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("Errore elenco treni: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Errore durante la lettura dei treni",
			"message": "database non disponibile",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
