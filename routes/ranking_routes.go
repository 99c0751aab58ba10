package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupRankingRoutes(protected *gin.RouterGroup, rankingController *controllers.RankingController) {
	protected.GET("/rankings", rankingController.GetRanking)
}
