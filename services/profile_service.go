package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/terra-pic/api-go/models"
	"gorm.io/gorm"
)

const (
	maxNameLength = 50
	maxBioLength  = 200
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

type ProfileStatistics struct {
	TotalPosts          int64 `json:"total_posts"`
	TotalLikesReceived  int64 `json:"total_likes_received"`
	FollowerCount       int64 `json:"follower_count"`
	FollowingCount      int64 `json:"following_count"`
	FavoritePlacesCount int64 `json:"favorite_places_count"`
}

type ProfileDetails struct {
	User       models.User       `json:"user"`
	Statistics ProfileStatistics `json:"statistics"`
}

// GetProfileDetails returns the user together with their counters.
// Likes received is the sum of the adjustment-based like_count column,
// not a recount of like rows.
func (s *ProfileService) GetProfileDetails(ctx context.Context, userID uint) (*ProfileDetails, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, errors.Wrap(err, "loading user")
	}

	var stats ProfileStatistics
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&stats.TotalPosts).Error; err != nil {
		return nil, errors.Wrap(err, "counting posts")
	}
	err := db.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(like_count), 0)").
		Scan(&stats.TotalLikesReceived).Error
	if err != nil {
		return nil, errors.Wrap(err, "summing likes received")
	}
	if err := db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&stats.FollowerCount).Error; err != nil {
		return nil, errors.Wrap(err, "counting followers")
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingCount).Error; err != nil {
		return nil, errors.Wrap(err, "counting following")
	}
	if err := db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&stats.FavoritePlacesCount).Error; err != nil {
		return nil, errors.Wrap(err, "counting favorite places")
	}

	return &ProfileDetails{User: user, Statistics: stats}, nil
}

type UpdateProfileInput struct {
	Username     *string
	Name         *string
	Bio          *string
	ProfileImage *string
}

// UpdateProfile applies partial profile changes. Username collisions
// and over-length fields are ValidationErrors, not storage failures.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, errors.Wrap(err, "loading user")
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, NewValidationError("username", "username must not be empty")
		}
		var taken int64
		err := s.DB.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND id <> ?", username, userID).
			Count(&taken).Error
		if err != nil {
			return nil, errors.Wrap(err, "checking username")
		}
		if taken > 0 {
			return nil, NewValidationError("username", "this username is already taken")
		}
		user.Username = username
	}

	if in.Name != nil {
		if utf8.RuneCountInString(*in.Name) > maxNameLength {
			return nil, NewValidationError("name", "name must be 50 characters or fewer")
		}
		user.Name = *in.Name
	}

	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLength {
			return nil, NewValidationError("bio", "bio must be 200 characters or fewer")
		}
		user.Bio = *in.Bio
	}

	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}

	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("username", "this username is already taken")
		}
		return nil, errors.Wrap(err, "saving user")
	}
	return &user, nil
}

// ToggleFollow follows or unfollows and returns the new state plus the
// followed user's current follower count. Following yourself is
// rejected outright.
func (s *ProfileService) ToggleFollow(ctx context.Context, followerID, followedID uint) (bool, int64, error) {
	if followerID == followedID {
		return false, 0, NewValidationError("user_id", "cannot follow yourself")
	}

	var target models.User
	if err := s.DB.WithContext(ctx).First(&target, followedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, NewNotFoundError("user", followedID)
		}
		return false, 0, errors.Wrap(err, "loading user")
	}

	var existing models.Follow
	findErr := s.DB.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&existing).Error

	following := false
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
		if err := s.DB.WithContext(ctx).Create(&follow).Error; err != nil {
			if !isUniqueViolation(err) {
				return false, 0, errors.Wrap(err, "creating follow")
			}
		}
		following = true
	} else if findErr != nil {
		return false, 0, errors.Wrap(findErr, "loading follow")
	} else {
		if err := s.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, 0, errors.Wrap(err, "deleting follow")
		}
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", followedID).
		Count(&count).Error
	if err != nil {
		return false, 0, errors.Wrap(err, "counting followers")
	}
	return following, count, nil
}

type FollowEntry struct {
	UserID       uint   `json:"user_id" gorm:"column:user_id"`
	Username     string `json:"username" gorm:"column:username"`
	Name         string `json:"name" gorm:"column:name"`
	ProfileImage string `json:"profile_image" gorm:"column:profile_image"`
}

// GetFollowers lists who follows the user, most recent first.
func (s *ProfileService) GetFollowers(ctx context.Context, userID uint, page, perPage int) ([]FollowEntry, int64, error) {
	base := s.DB.WithContext(ctx).Model(&models.Follow{}).Where("followed_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting followers")
	}

	entries := make([]FollowEntry, 0)
	err := base.
		Select("users.id AS user_id, users.username, users.name, users.profile_image").
		Joins("JOIN users ON users.id = follows.follower_id").
		Order("follows.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing followers")
	}
	return entries, total, nil
}

// GetFollowing lists who the user follows, most recent first.
func (s *ProfileService) GetFollowing(ctx context.Context, userID uint, page, perPage int) ([]FollowEntry, int64, error) {
	base := s.DB.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting following")
	}

	entries := make([]FollowEntry, 0)
	err := base.
		Select("users.id AS user_id, users.username, users.name, users.profile_image").
		Joins("JOIN users ON users.id = follows.followed_id").
		Order("follows.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing following")
	}
	return entries, total, nil
}

// ReportUser records an abuse report against another user.
func (s *ProfileService) ReportUser(ctx context.Context, reporterID, reportedID uint, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return NewValidationError("reason", "report reason is required")
	}
	if reporterID == reportedID {
		return NewValidationError("user_id", "cannot report yourself")
	}

	var target models.User
	if err := s.DB.WithContext(ctx).First(&target, reportedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("user", reportedID)
		}
		return errors.Wrap(err, "loading user")
	}

	report := models.UserReport{UserID: reporterID, ReportedUserID: reportedID, Reason: reason}
	if err := s.DB.WithContext(ctx).Create(&report).Error; err != nil {
		return errors.Wrap(err, "creating report")
	}
	return nil
}
