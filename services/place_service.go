package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/terra-pic/api-go/models"
	"gorm.io/gorm"
)

type PlaceService struct {
	DB *gorm.DB
}

func NewPlaceService(db *gorm.DB) *PlaceService {
	return &PlaceService{DB: db}
}

// favoriteCount is always a live COUNT over the favorites table. Unlike
// post.like_count there is no stored counter to drift; the rows are the
// count.
func (s *PlaceService) favoriteCount(ctx context.Context, placeID uint) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("place_id = ?", placeID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting favorites")
	}
	return count, nil
}

// ToggleFavorite creates or removes the (user, place) favorite row and
// returns the new state together with the up-to-date count.
func (s *PlaceService) ToggleFavorite(ctx context.Context, userID, placeID uint) (bool, int64, error) {
	var place models.Place
	if err := s.DB.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, NewNotFoundError("place", placeID)
		}
		return false, 0, errors.Wrap(err, "loading place")
	}

	var existing models.Favorite
	findErr := s.DB.WithContext(ctx).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		First(&existing).Error

	favorited := false
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		favorite := models.Favorite{UserID: userID, PlaceID: placeID}
		if err := s.DB.WithContext(ctx).Create(&favorite).Error; err != nil {
			if !isUniqueViolation(err) {
				return false, 0, errors.Wrap(err, "creating favorite")
			}
			// Concurrent toggle already created it; absorb as a no-op.
		}
		favorited = true
	} else if findErr != nil {
		return false, 0, errors.Wrap(findErr, "loading favorite")
	} else {
		if err := s.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, 0, errors.Wrap(err, "deleting favorite")
		}
	}

	count, err := s.favoriteCount(ctx, placeID)
	if err != nil {
		return false, 0, err
	}
	return favorited, count, nil
}

// FavoriteStatus reports whether the user has favorited the place and
// the current count.
func (s *PlaceService) FavoriteStatus(ctx context.Context, userID, placeID uint) (bool, int64, error) {
	var place models.Place
	if err := s.DB.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, NewNotFoundError("place", placeID)
		}
		return false, 0, errors.Wrap(err, "loading place")
	}

	var favorited int64
	err := s.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		Count(&favorited).Error
	if err != nil {
		return false, 0, errors.Wrap(err, "checking favorite")
	}

	count, err := s.favoriteCount(ctx, placeID)
	if err != nil {
		return false, 0, err
	}
	return favorited > 0, count, nil
}

type PlacePhoto struct {
	ID                 uint     `json:"id"`
	PhotoImage         string   `json:"photo_image"`
	Description        string   `json:"description"`
	Rating             *float64 `json:"rating"`
	LikeCount          int      `json:"like_count"`
	CreatedAt          string   `json:"created_at"`
	UserID             uint     `json:"user_id"`
	Username           string   `json:"username"`
	UserProfileImage   string   `json:"user_profile_image"`
	PhotoSpotLatitude  *float64 `json:"photo_spot_latitude"`
	PhotoSpotLongitude *float64 `json:"photo_spot_longitude"`
}

type PlaceDetails struct {
	ID                 uint               `json:"id"`
	Name               string             `json:"name"`
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	Rating             *float64           `json:"rating"`
	ImageURL           string             `json:"image_url"`
	TotalReviews       int64              `json:"total_reviews"`
	RatingDistribution map[string]float64 `json:"rating_distribution"`
	FavoriteCount      int64              `json:"favorite_count"`
	Photos             []PlacePhoto       `json:"photos"`
}

// GetPlaceDetails assembles the place page: photos ordered by
// popularity, the star distribution across the place's rated posts, and
// the live favorite count.
func (s *PlaceService) GetPlaceDetails(ctx context.Context, placeID uint) (*PlaceDetails, error) {
	var place models.Place
	if err := s.DB.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("place", placeID)
		}
		return nil, errors.Wrap(err, "loading place")
	}

	var posts []models.Post
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("place_id = ?", placeID).
		Order("like_count DESC, created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing place posts")
	}

	totalRatings := int64(len(posts))
	distribution := make(map[string]float64, 5)
	starCounts := make(map[int]int, 5)
	for _, post := range posts {
		if post.Rating != nil {
			starCounts[int(*post.Rating)]++
		}
	}
	for star := 1; star <= 5; star++ {
		key := fmt.Sprintf("%d_star", star)
		if totalRatings > 0 {
			distribution[key] = float64(starCounts[star]) / float64(totalRatings) * 100
		} else {
			distribution[key] = 0
		}
	}

	favoriteCount, err := s.favoriteCount(ctx, placeID)
	if err != nil {
		return nil, err
	}

	details := &PlaceDetails{
		ID:                 place.ID,
		Name:               place.Name,
		Latitude:           place.Latitude,
		Longitude:          place.Longitude,
		Rating:             place.Rating,
		TotalReviews:       totalRatings,
		RatingDistribution: distribution,
		FavoriteCount:      favoriteCount,
		Photos:             make([]PlacePhoto, 0, len(posts)),
	}

	if len(posts) > 0 {
		details.ImageURL = posts[0].PhotoImage
	}

	for _, post := range posts {
		details.Photos = append(details.Photos, PlacePhoto{
			ID:                 post.ID,
			PhotoImage:         post.PhotoImage,
			Description:        post.Description,
			Rating:             post.Rating,
			LikeCount:          post.LikeCount,
			CreatedAt:          post.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UserID:             post.UserID,
			Username:           post.User.Username,
			UserProfileImage:   post.User.ProfileImage,
			PhotoSpotLatitude:  post.PhotoSpotLatitude,
			PhotoSpotLongitude: post.PhotoSpotLongitude,
		})
	}

	return details, nil
}

// GetTopPhoto returns the most-liked post for a place. When an exact
// photo-spot coordinate is given, only posts shot from that spot count.
func (s *PlaceService) GetTopPhoto(ctx context.Context, placeID uint, lat, lon *float64) (*models.Post, error) {
	var place models.Place
	if err := s.DB.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("place", placeID)
		}
		return nil, errors.Wrap(err, "loading place")
	}

	query := s.DB.WithContext(ctx).Where("place_id = ?", placeID)
	if lat != nil && lon != nil {
		query = query.Where("photo_spot_latitude = ? AND photo_spot_longitude = ?", *lat, *lon)
	}

	var post models.Post
	err := query.Order("like_count DESC, created_at DESC").First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("place photo", placeID)
		}
		return nil, errors.Wrap(err, "loading top photo")
	}
	return &post, nil
}

// GetPlacePhotos returns a page of a place's photos, newest first.
func (s *PlaceService) GetPlacePhotos(ctx context.Context, placeID uint, page, perPage int) ([]models.Post, int64, error) {
	base := s.DB.WithContext(ctx).Model(&models.Post{}).Where("place_id = ?", placeID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting place photos")
	}

	posts := make([]models.Post, 0)
	err := base.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing place photos")
	}
	return posts, total, nil
}
