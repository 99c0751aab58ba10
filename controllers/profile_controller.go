package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
	"github.com/terra-pic/api-go/utils"
)

type ProfileController struct {
	ProfileService *services.ProfileService
}

func NewProfileController(profileService *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// GetMyProfile returns the caller's own profile with statistics.
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	user := utils.GetUser(c)

	details, err := pc.ProfileService.GetProfileDetails(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: details})
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	details, err := pc.ProfileService.GetProfileDetails(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: details})
}

type updateProfileRequest struct {
	Username     *string `json:"username"`
	Name         *string `json:"name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	user := utils.GetUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	updated, err := pc.ProfileService.UpdateProfile(c.Request.Context(), user.UserID, services.UpdateProfileInput{
		Username:     req.Username,
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: updated, Message: "Profile updated"})
}

// ToggleFollow follows or unfollows the target user.
func (pc *ProfileController) ToggleFollow(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	following, count, err := pc.ProfileService.ToggleFollow(c.Request.Context(), user.UserID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"following":      following,
			"follower_count": count,
		},
	})
}

func (pc *ProfileController) GetFollowers(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	followers, total, err := pc.ProfileService.GetFollowers(c.Request.Context(), userID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       followers,
		Pagination: newPaginationMeta(page, perPage, total),
	})
}

func (pc *ProfileController) GetFollowing(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	following, total, err := pc.ProfileService.GetFollowing(c.Request.Context(), userID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       following,
		Pagination: newPaginationMeta(page, perPage, total),
	})
}

func (pc *ProfileController) ReportUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, ok := parseUintParam(c, "id")
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

	if err := pc.ProfileService.ReportUser(c.Request.Context(), user.UserID, targetID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Message: "Report submitted"})
}
