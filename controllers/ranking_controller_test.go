package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terra-pic/api-go/services"
)

func newRankingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := NewRankingController(services.NewRankingService(nil))
	r.GET("/rankings", controller.GetRanking)
	return r
}

func TestGetRankingZeroLimitIsEmptyList(t *testing.T) {
	router := newRankingRouter()

	// The services answer limit <= 0 with an empty list before touching
	// the database; a nil connection would panic otherwise.
	for _, query := range []string{"type=places&limit=0", "type=posts&limit=-3", "type=users&limit=0"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/rankings?"+query, nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, query)

		var body struct {
			Success bool              `json:"success"`
			Data    []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), query)
		assert.True(t, body.Success)
		assert.Empty(t, body.Data)
	}
}

func TestGetRankingRejectsBadInput(t *testing.T) {
	router := newRankingRouter()

	for _, query := range []string{"type=comments", "type=places&limit=101", "type=places&limit=abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/rankings?"+query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
