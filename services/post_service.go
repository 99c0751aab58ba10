package services

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/terra-pic/api-go/models"
	"gorm.io/gorm"
)

type PostService struct {
	DB *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{DB: db}
}

type CreatePostInput struct {
	PlaceName          string
	Latitude           float64
	Longitude          float64
	PhotoSpotLatitude  *float64
	PhotoSpotLongitude *float64
	PhotoImage         string
	Description        string
	Rating             *float64
	Weather            string
	Season             string
}

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

func extractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func validateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	if *rating < 0 || *rating > 5 {
		return NewValidationError("rating", "rating must be between 0 and 5")
	}
	return nil
}

// CreatePost inserts the post and keeps the owning place's derived
// rating in step, all inside one transaction. The place is created on
// first reference to its name; its rating is recomputed as the mean of
// the non-deleted posts' ratings, so the freshly inserted post is part
// of the average. Two users posting to the same place at once can race
// on the recompute; the last write wins and the next recompute heals it.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.PlaceName) == "" {
		return nil, NewValidationError("place_name", "place name is required")
	}
	if strings.TrimSpace(in.PhotoImage) == "" {
		return nil, NewValidationError("photo_image", "photo image is required")
	}
	if err := validateLatitude("latitude", in.Latitude); err != nil {
		return nil, err
	}
	if err := validateLongitude("longitude", in.Longitude); err != nil {
		return nil, err
	}
	if in.PhotoSpotLatitude != nil {
		if err := validateLatitude("photo_spot_latitude", *in.PhotoSpotLatitude); err != nil {
			return nil, err
		}
	}
	if in.PhotoSpotLongitude != nil {
		if err := validateLongitude("photo_spot_longitude", *in.PhotoSpotLongitude); err != nil {
			return nil, err
		}
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "starting transaction")
	}

	var place models.Place
	err := tx.Where("name = ?", in.PlaceName).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		place = models.Place{
			Name:      in.PlaceName,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
		}
		err = tx.Create(&place).Error
	}
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "resolving place")
	}

	post := models.Post{
		UserID:             userID,
		PlaceID:            place.ID,
		PhotoSpotLatitude:  in.PhotoSpotLatitude,
		PhotoSpotLongitude: in.PhotoSpotLongitude,
		PhotoImage:         in.PhotoImage,
		Description:        in.Description,
		Rating:             in.Rating,
		Weather:            in.Weather,
		Season:             in.Season,
		Hashtags:           extractHashtags(in.Description),
	}

	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "creating post")
	}

	if err := recomputePlaceRating(tx, place.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "committing post creation")
	}

	post.Place = place
	return &post, nil
}

// recomputePlaceRating sets the place's rating to the mean of its
// non-deleted posts' non-null ratings, rounded to two decimals, or NULL
// when no rated posts remain.
func recomputePlaceRating(tx *gorm.DB, placeID uint) error {
	var avg *float64
	err := tx.Model(&models.Post{}).
		Where("place_id = ? AND rating IS NOT NULL", placeID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return errors.Wrap(err, "averaging post ratings")
	}

	if avg != nil {
		rounded := math.Round(*avg*100) / 100
		avg = &rounded
	}

	if err := tx.Model(&models.Place{}).Where("id = ?", placeID).Update("rating", avg).Error; err != nil {
		return errors.Wrap(err, "updating place rating")
	}
	return nil
}

// ToggleLike creates or removes the (user, post) like row and adjusts
// the post's like_count by exactly one with a database-side increment.
// The counter is deliberately never recomputed from the likes table:
// rows removed through other paths (say a cascading user delete) leave
// it untouched, which downstream ordering depends on.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var post models.Post
	if err := s.DB.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, NewNotFoundError("post", postID)
		}
		return false, errors.Wrap(err, "loading post")
	}

	var existing models.Like
	findErr := s.DB.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&existing).Error

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "starting transaction")
	}

	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		like := models.Like{UserID: userID, PostID: post.ID}
		if err := tx.Create(&like).Error; err != nil {
			tx.Rollback()
			if isUniqueViolation(err) {
				// Lost the race against an identical toggle; the like
				// already exists, so this call is a no-op.
				return true, nil
			}
			return false, errors.Wrap(err, "creating like")
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
			tx.Rollback()
			return false, errors.Wrap(err, "incrementing like count")
		}
		if err := tx.Commit().Error; err != nil {
			return false, errors.Wrap(err, "committing like")
		}
		return true, nil
	}
	if findErr != nil {
		tx.Rollback()
		return false, errors.Wrap(findErr, "loading like")
	}

	if err := tx.Delete(&existing).Error; err != nil {
		tx.Rollback()
		return false, errors.Wrap(err, "deleting like")
	}
	// Two concurrent unlikes of the same row both reach the decrement;
	// the resulting drift is tolerated the same way externally removed
	// like rows are.
	if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
		Update("like_count", gorm.Expr("like_count - ?", 1)).Error; err != nil {
		tx.Rollback()
		return false, errors.Wrap(err, "decrementing like count")
	}
	if err := tx.Commit().Error; err != nil {
		return false, errors.Wrap(err, "committing unlike")
	}
	return false, nil
}

// DeletePost soft-deletes the post and recomputes the place rating
// without it. Delete is always soft here: public queries filter on
// deleted_at, so the row disappears everywhere at once.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	var post models.Post
	if err := s.DB.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("post", postID)
		}
		return errors.Wrap(err, "loading post")
	}
	if post.UserID != userID {
		return NewValidationError("post_id", "post does not belong to the current user")
	}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "starting transaction")
	}

	if err := tx.Delete(&post).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting post")
	}

	if err := recomputePlaceRating(tx, post.PlaceID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing post deletion")
	}
	return nil
}

// GetUserPosts returns a page of the user's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, page, perPage int) ([]models.Post, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting user posts")
	}

	posts := make([]models.Post, 0)
	err := query.
		Preload("Place").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing user posts")
	}
	return posts, total, nil
}

// GetLikedPosts returns a page of posts the user has liked, most
// recently liked first.
func (s *PostService) GetLikedPosts(ctx context.Context, userID uint, page, perPage int) ([]models.Post, int64, error) {
	base := s.DB.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting liked posts")
	}

	posts := make([]models.Post, 0)
	err := base.
		Preload("User").
		Preload("Place").
		Order("likes.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing liked posts")
	}
	return posts, total, nil
}

// AddComment attaches a comment to a post.
func (s *PostService) AddComment(ctx context.Context, userID, postID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("comment", "comment must not be empty")
	}

	var post models.Post
	if err := s.DB.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post", postID)
		}
		return nil, errors.Wrap(err, "loading post")
	}

	comment := models.Comment{UserID: userID, PostID: postID, Comment: text}
	if err := s.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, errors.Wrap(err, "creating comment")
	}
	return &comment, nil
}

// GetComments lists a post's comments, oldest first.
func (s *PostService) GetComments(ctx context.Context, postID uint, page, perPage int) ([]models.Comment, int64, error) {
	base := s.DB.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting comments")
	}

	comments := make([]models.Comment, 0)
	err := base.
		Preload("User").
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing comments")
	}
	return comments, total, nil
}

// ReportPost records an abuse report against a post.
func (s *PostService) ReportPost(ctx context.Context, userID, postID uint, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return NewValidationError("reason", "report reason is required")
	}

	var post models.Post
	if err := s.DB.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("post", postID)
		}
		return errors.Wrap(err, "loading post")
	}

	report := models.PostReport{UserID: userID, PostID: postID, Reason: reason}
	if err := s.DB.WithContext(ctx).Create(&report).Error; err != nil {
		return errors.Wrap(err, "creating report")
	}
	return nil
}
