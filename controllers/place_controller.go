package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
	"github.com/terra-pic/api-go/utils"
)

type PlaceController struct {
	GeoService   *services.GeoService
	PlaceService *services.PlaceService
}

func NewPlaceController(geoService *services.GeoService, placeService *services.PlaceService) *PlaceController {
	return &PlaceController{GeoService: geoService, PlaceService: placeService}
}

// GetPlacesInBounds returns annotated places inside a map viewport.
func (pc *PlaceController) GetPlacesInBounds(c *gin.Context) {
	minLat, err1 := strconv.ParseFloat(c.Query("min_lat"), 64)
	maxLat, err2 := strconv.ParseFloat(c.Query("max_lat"), 64)
	minLon, err3 := strconv.ParseFloat(c.Query("min_lon"), 64)
	maxLon, err4 := strconv.ParseFloat(c.Query("max_lon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "min_lat, max_lat, min_lon and max_lon are required"})
		return
	}

	places, err := pc.GeoService.FindInBounds(c.Request.Context(), minLat, maxLat, minLon, maxLon)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: places})
}

// GetNearbyPlaces returns places within a radius of a point, closest
// first.
func (pc *PlaceController) GetNearbyPlaces(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "lat and lon are required"})
		return
	}

	radiusKm := 5.0
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid radius"})
			return
		}
		radiusKm = parsed
	}

	places, err := pc.GeoService.FindNearby(c.Request.Context(), lat, lon, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: places})
}

func (pc *PlaceController) GetPlaceDetails(c *gin.Context) {
	placeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	details, err := pc.PlaceService.GetPlaceDetails(c.Request.Context(), placeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: details})
}

// GetTopPhoto returns the most-liked photo of a place, optionally
// narrowed to an exact photo spot.
func (pc *PlaceController) GetTopPhoto(c *gin.Context) {
	placeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

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

	post, err := pc.PlaceService.GetTopPhoto(c.Request.Context(), placeID, lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: post})
}

func (pc *PlaceController) GetPlacePhotos(c *gin.Context) {
	placeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	posts, total, err := pc.PlaceService.GetPlacePhotos(c.Request.Context(), placeID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       posts,
		Pagination: newPaginationMeta(page, perPage, total),
	})
}

// ToggleFavorite flips the caller's favorite on a place and reports the
// resulting live count.
func (pc *PlaceController) ToggleFavorite(c *gin.Context) {
	user := utils.GetUser(c)
	placeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	favorited, count, err := pc.PlaceService.ToggleFavorite(c.Request.Context(), user.UserID, placeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"favorited":      favorited,
			"favorite_count": count,
		},
	})
}

func (pc *PlaceController) GetFavoriteStatus(c *gin.Context) {
	user := utils.GetUser(c)
	placeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	favorited, count, err := pc.PlaceService.FavoriteStatus(c.Request.Context(), user.UserID, placeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"favorited":      favorited,
			"favorite_count": count,
		},
	})
}
