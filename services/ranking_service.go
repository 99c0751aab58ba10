package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RankEntity string

const (
	RankPlaces RankEntity = "places"
	RankPosts  RankEntity = "posts"
	RankUsers  RankEntity = "users"
)

type RankPeriod string

const (
	PeriodWeekly  RankPeriod = "weekly"
	PeriodMonthly RankPeriod = "monthly"
	PeriodAll     RankPeriod = "all"
)

type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

// periodCutoff returns the activity cutoff for a ranking period. The
// window applies to post activity, never to the ranked entity's own
// creation time. Unrecognized periods fall back to all-time.
func periodCutoff(period RankPeriod, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case PeriodMonthly:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// assignDenseRanks walks rows already sorted by their ranking key and
// gives tied keys the same rank with no gap after a tie: keys
// [10,10,7,5] rank as [1,1,2,3].
func assignDenseRanks(n int, sameKey func(i, j int) bool, set func(i, rank int)) {
	rank := 0
	for i := 0; i < n; i++ {
		if i == 0 || !sameKey(i, i-1) {
			rank++
		}
		set(i, rank)
	}
}

type PlaceRanking struct {
	ID            uint     `json:"id" gorm:"column:id"`
	Name          string   `json:"name" gorm:"column:name"`
	Latitude      float64  `json:"latitude" gorm:"column:latitude"`
	Longitude     float64  `json:"longitude" gorm:"column:longitude"`
	Rating        *float64 `json:"rating" gorm:"column:rating"`
	FavoriteCount int64    `json:"favorite_count" gorm:"column:favorite_count"`
	PostCount     int64    `json:"post_count" gorm:"column:post_count"`
	Rank          int      `json:"rank" gorm:"-"`
}

// GetPlaceRanking ranks places by favorites, then by posts created in
// the period. Places with neither are left out entirely rather than
// trailing with rank N.
func (s *RankingService) GetPlaceRanking(ctx context.Context, period RankPeriod, limit int) ([]PlaceRanking, error) {
	results := make([]PlaceRanking, 0)
	if limit <= 0 {
		return results, nil
	}

	favoriteCountSQL := "(SELECT COUNT(*) FROM favorites WHERE favorites.place_id = places.id)"
	postCountSQL := "(SELECT COUNT(*) FROM posts WHERE posts.place_id = places.id AND posts.deleted_at IS NULL"
	selectArgs := make([]interface{}, 0, 1)
	whereArgs := make([]interface{}, 0, 1)
	if cutoff, ok := periodCutoff(period, time.Now()); ok {
		postCountSQL += " AND posts.created_at >= ?"
		selectArgs = append(selectArgs, cutoff)
		whereArgs = append(whereArgs, cutoff)
	}
	postCountSQL += ")"

	err := s.DB.WithContext(ctx).
		Table("places").
		Select("places.id, places.name, places.latitude, places.longitude, places.rating, "+
			favoriteCountSQL+" AS favorite_count, "+postCountSQL+" AS post_count", selectArgs...).
		Where(favoriteCountSQL+" > 0 OR "+postCountSQL+" > 0", whereArgs...).
		Order("favorite_count DESC, post_count DESC, places.id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, errors.Wrap(err, "ranking places")
	}

	assignDenseRanks(len(results),
		func(i, j int) bool {
			return results[i].FavoriteCount == results[j].FavoriteCount &&
				results[i].PostCount == results[j].PostCount
		},
		func(i, rank int) { results[i].Rank = rank })

	return results, nil
}

type PostRanking struct {
	ID          uint     `json:"id" gorm:"column:id"`
	Description string   `json:"description" gorm:"column:description"`
	PhotoImage  string   `json:"photo_image" gorm:"column:photo_image"`
	Rating      *float64 `json:"rating" gorm:"column:rating"`
	LikeCount   int64    `json:"like_count" gorm:"column:like_count"`
	UserID      uint     `json:"user_id" gorm:"column:user_id"`
	Username    string   `json:"username" gorm:"column:username"`
	PlaceID     uint     `json:"place_id" gorm:"column:place_id"`
	PlaceName   string   `json:"place_name" gorm:"column:place_name"`
	Rank        int      `json:"rank" gorm:"-"`
}

// GetPostRanking ranks posts created in the period purely by like
// count; equal counts share a dense rank.
func (s *RankingService) GetPostRanking(ctx context.Context, period RankPeriod, limit int) ([]PostRanking, error) {
	results := make([]PostRanking, 0)
	if limit <= 0 {
		return results, nil
	}

	query := s.DB.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.description, posts.photo_image, posts.rating, posts.like_count, "+
			"posts.user_id, users.username, posts.place_id, places.name AS place_name").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("JOIN places ON places.id = posts.place_id").
		Where("posts.deleted_at IS NULL")
	if cutoff, ok := periodCutoff(period, time.Now()); ok {
		query = query.Where("posts.created_at >= ?", cutoff)
	}

	err := query.
		Order("posts.like_count DESC, posts.id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, errors.Wrap(err, "ranking posts")
	}

	assignDenseRanks(len(results),
		func(i, j int) bool { return results[i].LikeCount == results[j].LikeCount },
		func(i, rank int) { results[i].Rank = rank })

	return results, nil
}

type UserRanking struct {
	ID            uint   `json:"id" gorm:"column:id"`
	Username      string `json:"username" gorm:"column:username"`
	Name          string `json:"name" gorm:"column:name"`
	ProfileImage  string `json:"profile_image" gorm:"column:profile_image"`
	TotalLikes    int64  `json:"total_likes" gorm:"column:total_likes"`
	PostCount     int64  `json:"post_count" gorm:"column:post_count"`
	FollowerCount int64  `json:"follower_count" gorm:"column:follower_count"`
	Rank          int    `json:"rank" gorm:"-"`
}

// GetUserRanking ranks users by likes received on their posts in the
// period, follower count breaking ties. The period applies to the posts
// feeding the sums; the follower count is all-time. Users with no
// period activity at all are excluded.
//
// The aggregates are correlated subselects, never joins: joining posts
// and follows onto users in one grouped query fans the rows out and
// multiplies the like sum by the follower count.
func (s *RankingService) GetUserRanking(ctx context.Context, period RankPeriod, limit int) ([]UserRanking, error) {
	results := make([]UserRanking, 0)
	if limit <= 0 {
		return results, nil
	}

	totalLikesSQL := "(SELECT COALESCE(SUM(posts.like_count), 0) FROM posts WHERE posts.user_id = users.id AND posts.deleted_at IS NULL"
	postCountSQL := "(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id AND posts.deleted_at IS NULL"
	selectArgs := make([]interface{}, 0, 2)
	whereArgs := make([]interface{}, 0, 2)
	if cutoff, ok := periodCutoff(period, time.Now()); ok {
		totalLikesSQL += " AND posts.created_at >= ?"
		postCountSQL += " AND posts.created_at >= ?"
		selectArgs = append(selectArgs, cutoff, cutoff)
		whereArgs = append(whereArgs, cutoff, cutoff)
	}
	totalLikesSQL += ")"
	postCountSQL += ")"
	followerCountSQL := "(SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id)"

	err := s.DB.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.name, users.profile_image, "+
			totalLikesSQL+" AS total_likes, "+
			postCountSQL+" AS post_count, "+
			followerCountSQL+" AS follower_count", selectArgs...).
		Where("users.deleted_at IS NULL").
		Where(totalLikesSQL+" > 0 OR "+postCountSQL+" > 0", whereArgs...).
		Order("total_likes DESC, follower_count DESC, users.id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, errors.Wrap(err, "ranking users")
	}

	assignDenseRanks(len(results),
		func(i, j int) bool {
			return results[i].TotalLikes == results[j].TotalLikes &&
				results[i].FollowerCount == results[j].FollowerCount
		},
		func(i, rank int) { results[i].Rank = rank })

	return results, nil
}
