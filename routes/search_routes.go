package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupSearchRoutes(protected *gin.RouterGroup, searchController *controllers.SearchController) {
	search := protected.Group("/search")
	{
		search.GET("", searchController.Search)
		search.GET("/suggestions", searchController.Suggestions)
		search.GET("/places", searchController.LookupPlaces)
	}
}
