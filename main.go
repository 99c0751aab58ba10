package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/terra-pic/api-go/cache"
	"github.com/terra-pic/api-go/config"
	"github.com/terra-pic/api-go/controllers"
	"github.com/terra-pic/api-go/routes"
	"github.com/terra-pic/api-go/services"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize database
	db := config.InitDB()

	// Redis is optional: without it every cached read is a miss and the
	// API still serves from the database.
	var memo *cache.Cache
	if rdb, err := config.InitRedis(); err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
	} else {
		memo = cache.New(rdb)
	}

	placesClient := services.NewGooglePlacesClient(config.GetPlacesConfig())

	ctrls := routes.Controllers{
		Auth:    controllers.NewAuthController(db),
		Place:   controllers.NewPlaceController(services.NewGeoService(db, memo), services.NewPlaceService(db)),
		Post:    controllers.NewPostController(services.NewPostService(db)),
		Ranking: controllers.NewRankingController(services.NewRankingService(db)),
		Search:  controllers.NewSearchController(services.NewSearchService(db, memo, placesClient)),
		Profile: controllers.NewProfileController(services.NewProfileService(db)),
		Upload:  controllers.NewUploadController(services.NewUploadService(config.GetR2Config())),
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, ctrls)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
