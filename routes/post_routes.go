package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController) {
	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.DELETE("/:id", postController.DeletePost)
		posts.POST("/:id/like", postController.ToggleLike)
		posts.POST("/:id/comments", postController.AddComment)
		posts.GET("/:id/comments", postController.GetComments)
		posts.POST("/:id/report", postController.ReportPost)
		posts.GET("/liked", postController.GetLikedPosts)
	}

	protected.GET("/users/:id/posts", postController.GetUserPosts)
}
