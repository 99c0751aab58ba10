package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupPlaceRoutes(protected *gin.RouterGroup, placeController *controllers.PlaceController) {
	places := protected.Group("/places")
	{
		places.GET("/in-bounds", placeController.GetPlacesInBounds)
		places.GET("/nearby", placeController.GetNearbyPlaces)
		places.GET("/:id", placeController.GetPlaceDetails)
		places.GET("/:id/top-photo", placeController.GetTopPhoto)
		places.GET("/:id/photos", placeController.GetPlacePhotos)
		places.POST("/:id/favorite", placeController.ToggleFavorite)
		places.GET("/:id/favorite", placeController.GetFavoriteStatus)
	}
}
