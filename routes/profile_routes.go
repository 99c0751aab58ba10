package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupProfileRoutes(protected *gin.RouterGroup, profileController *controllers.ProfileController) {
	protected.GET("/profile", profileController.GetMyProfile)
	protected.PUT("/profile", profileController.UpdateProfile)

	users := protected.Group("/users")
	{
		users.GET("/:id", profileController.GetProfile)
		users.POST("/:id/follow", profileController.ToggleFollow)
		users.GET("/:id/followers", profileController.GetFollowers)
		users.GET("/:id/following", profileController.GetFollowing)
		users.POST("/:id/report", profileController.ReportUser)
	}
}
