package services

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/terra-pic/api-go/cache"
	"github.com/terra-pic/api-go/types"
	"gorm.io/gorm"
)

// Result caps per type for unified search, and the smaller suggestion
// caps used while the user is still typing.
const (
	searchUserLimit  = 10
	searchPostLimit  = 30
	searchPlaceLimit = 15

	suggestionPlaceLimit = 5
	suggestionUserLimit  = 3
	suggestionMinRunes   = 2

	lookupLocalLimit    = 5
	lookupExternalLimit = 10
)

type SearchService struct {
	DB       *gorm.DB
	Cache    *cache.Cache
	Provider PlacesProvider
}

func NewSearchService(db *gorm.DB, c *cache.Cache, provider PlacesProvider) *SearchService {
	return &SearchService{DB: db, Cache: c, Provider: provider}
}

type UserSearchResult struct {
	ID            uint   `json:"id" gorm:"column:id"`
	Username      string `json:"username" gorm:"column:username"`
	Name          string `json:"name" gorm:"column:name"`
	ProfileImage  string `json:"profile_image" gorm:"column:profile_image"`
	PostCount     int64  `json:"post_count" gorm:"column:post_count"`
	FollowerCount int64  `json:"follower_count" gorm:"column:follower_count"`
}

type PostSearchResult struct {
	ID          uint      `json:"id" gorm:"column:id"`
	Description string    `json:"description" gorm:"column:description"`
	PhotoImage  string    `json:"photo_image" gorm:"column:photo_image"`
	LikeCount   int64     `json:"like_count" gorm:"column:like_count"`
	UserID      uint      `json:"user_id" gorm:"column:user_id"`
	Username    string    `json:"username" gorm:"column:username"`
	PlaceID     uint      `json:"place_id" gorm:"column:place_id"`
	PlaceName   string    `json:"place_name" gorm:"column:place_name"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

type PlaceSearchResult struct {
	ID            uint     `json:"id" gorm:"column:id"`
	Name          string   `json:"name" gorm:"column:name"`
	Latitude      float64  `json:"latitude" gorm:"column:latitude"`
	Longitude     float64  `json:"longitude" gorm:"column:longitude"`
	Rating        *float64 `json:"rating" gorm:"column:rating"`
	PostCount     int64    `json:"post_count" gorm:"column:post_count"`
	FavoriteCount int64    `json:"favorite_count" gorm:"column:favorite_count"`
	// Thumbnail is the image of the place's most-liked post.
	Thumbnail string `json:"thumbnail" gorm:"column:thumbnail"`
}

type SearchResponse struct {
	Users  []UserSearchResult  `json:"users"`
	Posts  []PostSearchResult  `json:"posts"`
	Places []PlaceSearchResult `json:"places"`
}

func emptySearchResponse() *SearchResponse {
	return &SearchResponse{
		Users:  make([]UserSearchResult, 0),
		Posts:  make([]PostSearchResult, 0),
		Places: make([]PlaceSearchResult, 0),
	}
}

// Search runs the unified user/post/place search. A blank query
// short-circuits to three empty lists without touching cache or
// database. Results are memoized per exact query string; the unified
// search never consults the external provider.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptySearchResponse(), nil
	}

	key := cache.SearchKey(query)
	cached := emptySearchResponse()
	if hit, err := s.Cache.GetJSON(ctx, key, cached); err != nil {
		log.Printf("search cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	response := emptySearchResponse()
	pattern := "%" + query + "%"

	err := s.DB.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.name, users.profile_image, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id AND posts.deleted_at IS NULL) AS post_count, "+
			"(SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id) AS follower_count").
		Where("users.deleted_at IS NULL").
		Where("users.username ILIKE ? OR users.name ILIKE ?", pattern, pattern).
		Order("follower_count DESC, post_count DESC").
		Limit(searchUserLimit).
		Scan(&response.Users).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching users")
	}

	err = s.DB.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.description, posts.photo_image, posts.like_count, posts.created_at, "+
			"posts.user_id, users.username, posts.place_id, places.name AS place_name").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("JOIN places ON places.id = posts.place_id").
		Where("posts.deleted_at IS NULL").
		Where("posts.description ILIKE ? OR places.name ILIKE ? OR users.username ILIKE ?",
			pattern, pattern, pattern).
		Order("posts.created_at DESC").
		Limit(searchPostLimit).
		Scan(&response.Posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching posts")
	}

	err = s.DB.WithContext(ctx).
		Table("places").
		Select("places.id, places.name, places.latitude, places.longitude, places.rating, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.place_id = places.id AND posts.deleted_at IS NULL) AS post_count, "+
			"(SELECT COUNT(*) FROM favorites WHERE favorites.place_id = places.id) AS favorite_count, "+
			"COALESCE((SELECT posts.photo_image FROM posts WHERE posts.place_id = places.id AND posts.deleted_at IS NULL "+
			"ORDER BY posts.like_count DESC, posts.created_at DESC LIMIT 1), '') AS thumbnail").
		Where("places.name ILIKE ?", pattern).
		Order("post_count DESC").
		Limit(searchPlaceLimit).
		Scan(&response.Places).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching places")
	}

	if err := s.Cache.SetJSON(ctx, key, response, cache.SearchTTL); err != nil {
		log.Printf("search cache write failed: %v", err)
	}

	return response, nil
}

type Suggestion struct {
	Type string `json:"type"`
	Text string `json:"text"`
	ID   uint   `json:"id"`
}

// Suggestions returns autocomplete candidates for queries of at least
// two characters: place names first, then usernames, both prefix
// matched. Cached separately from full search with a shorter TTL.
func (s *SearchService) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < suggestionMinRunes {
		return []Suggestion{}, nil
	}

	key := cache.SuggestionKey(query)
	cached := make([]Suggestion, 0)
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err != nil {
		log.Printf("suggestion cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	prefix := query + "%"
	suggestions := make([]Suggestion, 0, suggestionPlaceLimit+suggestionUserLimit)

	var places []struct {
		ID   uint   `gorm:"column:id"`
		Name string `gorm:"column:name"`
	}
	err := s.DB.WithContext(ctx).
		Table("places").
		Select("places.id, places.name, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.place_id = places.id AND posts.deleted_at IS NULL) AS post_count").
		Where("places.name ILIKE ?", prefix).
		Order("post_count DESC").
		Limit(suggestionPlaceLimit).
		Scan(&places).Error
	if err != nil {
		return nil, errors.Wrap(err, "suggesting places")
	}
	for _, place := range places {
		suggestions = append(suggestions, Suggestion{Type: "place", Text: place.Name, ID: place.ID})
	}

	var users []struct {
		ID       uint   `gorm:"column:id"`
		Username string `gorm:"column:username"`
	}
	err = s.DB.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, "+
			"(SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id) AS follower_count").
		Where("users.deleted_at IS NULL").
		Where("users.username ILIKE ? OR users.name ILIKE ?", prefix, prefix).
		Order("follower_count DESC").
		Limit(suggestionUserLimit).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "suggesting users")
	}
	for _, user := range users {
		suggestions = append(suggestions, Suggestion{Type: "user", Text: user.Username, ID: user.ID})
	}

	if err := s.Cache.SetJSON(ctx, key, suggestions, cache.SuggestionTTL); err != nil {
		log.Printf("suggestion cache write failed: %v", err)
	}

	return suggestions, nil
}

// LookupPlacesForPost finds candidate places to attach to a new post:
// stored places matching by name first, provider results after. This is
// the only flow that reaches the external provider; its failures
// propagate so the caller can answer 503 instead of pretending the
// query matched nothing.
func (s *SearchService) LookupPlacesForPost(ctx context.Context, query string, lat, lon *float64) ([]types.PlaceResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "search query is required")
	}

	var local []struct {
		ID        uint     `gorm:"column:id"`
		Name      string   `gorm:"column:name"`
		Latitude  float64  `gorm:"column:latitude"`
		Longitude float64  `gorm:"column:longitude"`
		Rating    *float64 `gorm:"column:rating"`
	}
	err := s.DB.WithContext(ctx).
		Table("places").
		Select("places.id, places.name, places.latitude, places.longitude, places.rating").
		Where("places.name ILIKE ?", "%"+query+"%").
		Limit(lookupLocalLimit).
		Scan(&local).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching local places")
	}

	results := make([]types.PlaceResult, 0, lookupLocalLimit+lookupExternalLimit)
	for _, place := range local {
		results = append(results, types.LocalPlace(types.LocalPlaceData{
			ID:        place.ID,
			Name:      place.Name,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
			Rating:    place.Rating,
		}))
	}

	external, err := s.Provider.TextSearch(ctx, query, lat, lon, lookupExternalLimit)
	if err != nil {
		return nil, err
	}
	for _, place := range external {
		results = append(results, types.ExternalPlace(types.ExternalPlaceData{
			PlaceID:          place.PlaceID,
			Name:             place.Name,
			Latitude:         place.Latitude,
			Longitude:        place.Longitude,
			FormattedAddress: place.FormattedAddress,
		}))
	}

	return results, nil
}
