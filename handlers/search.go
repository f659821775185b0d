package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartfare-backend/models"
	"smartfare-backend/services"
)

var (
	searchService  *services.SearchService
	databaseName   string
	collectionName string
)

// Init wires the handlers to the search service. The database names only
// feed the diagnostics payload.
func Init(svc *services.SearchService, dbName, collName string) {
	searchService = svc
	databaseName = dbName
	collectionName = collName
}

// SearchTrains handles POST /api/search.
func SearchTrains(c *gin.Context) {
	var params models.SearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Parametri mancanti",
			"required": []string{"from", "to", "date"},
		})
		return
	}

	if params.From == "" || params.To == "" || params.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Parametri mancanti",
			"required": []string{"from", "to", "date"},
		})
		return
	}

	if params.Passengers < 1 {
		params.Passengers = 1
	}

	result, err := searchService.Search(c.Request.Context(), params)
	if err != nil {
		respondSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondSearchError maps pipeline errors onto the JSON error envelope.
// Storage details are logged, never sent to the client.
func respondSearchError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Data non valida",
			"expected": "YYYY-MM-DD oppure DD/MM/YYYY",
		})
		return
	}

	log.Printf("Errore ricerca: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Errore durante la ricerca",
		"message": "servizio temporaneamente non disponibile",
	})
}
