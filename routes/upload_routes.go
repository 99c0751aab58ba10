package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/presigned-url", uploadController.GetPresignedURL)
		uploads.POST("/confirm", uploadController.ConfirmUpload)
		uploads.DELETE("/:key", uploadController.DeleteFile)
	}
}
