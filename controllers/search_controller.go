package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
	"github.com/terra-pic/api-go/types"
)

type SearchController struct {
	SearchService *services.SearchService
}

func NewSearchController(searchService *services.SearchService) *SearchController {
	return &SearchController{SearchService: searchService}
}

// Search runs the unified user/post/place search.
func (sc *SearchController) Search(c *gin.Context) {
	response, err := sc.SearchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: response})
}

// Suggestions serves typeahead candidates.
func (sc *SearchController) Suggestions(c *gin.Context) {
	suggestions, err := sc.SearchService.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: suggestions})
}

// LookupPlaces finds place candidates for attaching to a new post,
// merging stored places with provider results.
func (sc *SearchController) LookupPlaces(c *gin.Context) {
	var lat, lon *float64
	if rawLat, rawLon := c.Query("lat"), c.Query("lon"); rawLat != "" && rawLon != "" {
		parsedLat, err1 := strconv.ParseFloat(rawLat, 64)
		parsedLon, err2 := strconv.ParseFloat(rawLon, 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid lat/lon"})
			return
		}
		lat, lon = &parsedLat, &parsedLon
	}

	results, err := sc.SearchService.LookupPlacesForPost(c.Request.Context(), c.Query("q"), lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}

	formatted := make([]types.FormattedPlace, 0, len(results))
	for _, result := range results {
		formatted = append(formatted, result.Format())
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: formatted})
}
