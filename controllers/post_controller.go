package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
	"github.com/terra-pic/api-go/utils"
)

type PostController struct {
	PostService *services.PostService
}

func NewPostController(postService *services.PostService) *PostController {
	return &PostController{PostService: postService}
}

type createPostRequest struct {
	PlaceName          string   `json:"place_name" binding:"required"`
	Latitude           float64  `json:"latitude" binding:"required"`
	Longitude          float64  `json:"longitude" binding:"required"`
	PhotoSpotLatitude  *float64 `json:"photo_spot_latitude"`
	PhotoSpotLongitude *float64 `json:"photo_spot_longitude"`
	PhotoImage         string   `json:"photo_image" binding:"required"`
	Description        string   `json:"description"`
	Rating             *float64 `json:"rating"`
	Weather            string   `json:"weather"`
	Season             string   `json:"season"`
}

// CreatePost stores a post, creating its place on first sighting.
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	post, err := pc.PostService.CreatePost(c.Request.Context(), user.UserID, services.CreatePostInput{
		PlaceName:          req.PlaceName,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		PhotoSpotLatitude:  req.PhotoSpotLatitude,
		PhotoSpotLongitude: req.PhotoSpotLongitude,
		PhotoImage:         req.PhotoImage,
		Description:        req.Description,
		Rating:             req.Rating,
		Weather:            req.Weather,
		Season:             req.Season,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    post,
		Message: "Post created successfully",
	})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := pc.PostService.DeletePost(c.Request.Context(), user.UserID, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Post deleted successfully"})
}

// ToggleLike flips the caller's like and reports the new state.
func (pc *PostController) ToggleLike(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	liked, err := pc.PostService.ToggleLike(c.Request.Context(), user.UserID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"liked": liked},
	})
}

func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	posts, total, err := pc.PostService.GetUserPosts(c.Request.Context(), userID, page, perPage)
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

func (pc *PostController) GetLikedPosts(c *gin.Context) {
	user := utils.GetUser(c)
	page, perPage := parsePagination(c)

	posts, total, err := pc.PostService.GetLikedPosts(c.Request.Context(), user.UserID, page, perPage)
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

func (pc *PostController) AddComment(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	comment, err := pc.PostService.AddComment(c.Request.Context(), user.UserID, postID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: comment})
}

func (pc *PostController) GetComments(c *gin.Context) {
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	comments, total, err := pc.PostService.GetComments(c.Request.Context(), postID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       comments,
		Pagination: newPaginationMeta(page, perPage, total),
	})
}

func (pc *PostController) ReportPost(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := pc.PostService.ReportPost(c.Request.Context(), user.UserID, postID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Message: "Report submitted"})
}
