package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/terra-pic/api-go/services"
)

const defaultRankingLimit = 20

type RankingController struct {
	RankingService *services.RankingService
}

func NewRankingController(rankingService *services.RankingService) *RankingController {
	return &RankingController{RankingService: rankingService}
}

// GetRanking serves the leaderboard for one entity type and period.
// Unknown periods degrade to all-time; unknown types are a client error.
func (rc *RankingController) GetRanking(c *gin.Context) {
	entity := services.RankEntity(c.DefaultQuery("type", string(services.RankPlaces)))
	period := services.RankPeriod(c.DefaultQuery("period", string(services.PeriodAll)))

	// Non-positive limits fall through to the services, which answer
	// with an empty list.
	limit := defaultRankingLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be 100 or less"})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()

	var data interface{}
	var err error
	switch entity {
	case services.RankPlaces:
		data, err = rc.RankingService.GetPlaceRanking(ctx, period, limit)
	case services.RankPosts:
		data, err = rc.RankingService.GetPostRanking(ctx, period, limit)
	case services.RankUsers:
		data, err = rc.RankingService.GetUserRanking(ctx, period, limit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "type must be places, posts or users"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: data})
}
