package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
	"github.com/terra-pic/api-go/middleware"
)

type Controllers struct {
	Auth    *controllers.AuthController
	Place   *controllers.PlaceController
	Post    *controllers.PostController
	Ranking *controllers.RankingController
	Search  *controllers.SearchController
	Profile *controllers.ProfileController
	Upload  *controllers.UploadController
}

func SetupRoutes(r *gin.Engine, c Controllers) {
	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", c.Auth.Register)
		public.POST("/login", c.Auth.Login)
		public.POST("/refresh-token", c.Auth.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", c.Auth.Logout)

		SetupPlaceRoutes(protected, c.Place)
		SetupPostRoutes(protected, c.Post)
		SetupRankingRoutes(protected, c.Ranking)
		SetupSearchRoutes(protected, c.Search)
		SetupProfileRoutes(protected, c.Profile)
		SetupUploadRoutes(protected, c.Upload)
	}
}
