package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
	"github.com/terra-pic/api-go/utils"
)

type UploadController struct {
	UploadService *services.UploadService
}

func NewUploadController(uploadService *services.UploadService) *UploadController {
	return &UploadController{UploadService: uploadService}
}

type presignedURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
}

// GetPresignedURL hands the client a short-lived PUT URL for an image.
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)

	var req presignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	upload, err := uc.UploadService.CreateImageUploadURL(c.Request.Context(), user.UserID, req.FileName, req.ContentType, req.FileSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    upload,
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload verifies the object landed in the bucket.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	exists, err := uc.UploadService.ConfirmUpload(c.Request.Context(), req.Key)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found in storage"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Upload confirmed"})
}

func (uc *UploadController) DeleteFile(c *gin.Context) {
	user := utils.GetUser(c)
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File key is required"})
		return
	}

	if err := uc.UploadService.DeleteImage(c.Request.Context(), user.UserID, key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "File deleted successfully"})
}
