package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCredentials map[string]string

func (sc staticCredentials) APIKey(ctx context.Context, name string) (string, error) {
	if value, ok := sc[name]; ok {
		return value, nil
	}
	return "", errors.New("missing " + name)
}

type searchServer struct {
	mutex   sync.Mutex
	queries []string
	results map[string]string
	status  int
}

func (ss *searchServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	query := r.URL.Query().Get("query")
	ss.queries = append(ss.queries, query)
	if r.Header.Get("Authorization") != "px-test" || r.URL.Path != "/search" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Query().Get("per_page") != "1" || r.URL.Query().Get("orientation") != "landscape" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if ss.status != 0 {
		w.WriteHeader(ss.status)
		return
	}
	response := SearchResponse{Photos: []Photo{}}
	if url, ok := ss.results[query]; ok {
		response.Photos = append(response.Photos, Photo{Id: 1, Src: PhotoSource{Large2x: url}})
		response.TotalResults = 1
	}
	json.NewEncoder(w).Encode(response)
}

func (ss *searchServer) Queries() []string {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return append([]string(nil), ss.queries...)
}

func TestSearchRecipeImage(t *testing.T) {
	ctx := context.Background()
	creds := staticCredentials{"PEXELS_API_KEY": "px-test"}

	t.Run("CleanTitleHit", func(t *testing.T) {
		handler := &searchServer{results: map[string]string{"Banana Smoothie": "https://img/banana.jpg"}}
		server := httptest.NewServer(handler)
		defer server.Close()
		api := NewPexelsAPI(server.URL, creds, zap.NewNop())
		url, err := api.SearchRecipeImage(ctx, "Banana Smoothie Recipe!")
		require.NoError(t, err)
		assert.Equal(t, "https://img/banana.jpg", url)
		assert.Equal(t, []string{"Banana Smoothie"}, handler.Queries())
	})

	t.Run("FallbackToMainIngredient", func(t *testing.T) {
		handler := &searchServer{results: map[string]string{"chicken": "https://img/chicken.jpg"}}
		server := httptest.NewServer(handler)
		defer server.Close()
		api := NewPexelsAPI(server.URL, creds, zap.NewNop())
		url, err := api.SearchRecipeImage(ctx, "Zesty Lemon Chicken")
		require.NoError(t, err)
		assert.Equal(t, "https://img/chicken.jpg", url)
		assert.Equal(t, []string{"Zesty Lemon Chicken", "chicken"}, handler.Queries())
	})

	t.Run("NothingFound", func(t *testing.T) {
		handler := &searchServer{}
		server := httptest.NewServer(handler)
		defer server.Close()
		api := NewPexelsAPI(server.URL, creds, zap.NewNop())
		url, err := api.SearchRecipeImage(ctx, "Toast")
		require.NoError(t, err)
		assert.Equal(t, "", url)
		assert.Equal(t, []string{"Toast", "toast"}, handler.Queries())
	})

	t.Run("UpstreamError", func(t *testing.T) {
		handler := &searchServer{status: http.StatusTooManyRequests}
		server := httptest.NewServer(handler)
		defer server.Close()
		api := NewPexelsAPI(server.URL, creds, zap.NewNop())
		url, err := api.SearchRecipeImage(ctx, "Beef Stew")
		assert.Error(t, err)
		assert.Equal(t, "", url)
	})

	t.Run("MissingKey", func(t *testing.T) {
		api := NewPexelsAPI("http://127.0.0.1:0", staticCredentials{}, zap.NewNop())
		_, err := api.SearchImage(ctx, "anything")
		assert.Error(t, err)
	})
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Spicy Chicken Curry", CleanTitle("Spicy Chicken Curry Recipe"))
	assert.Equal(t, "Mom s Pasta", CleanTitle("Mom's Pasta Dish"))
	assert.Equal(t, "Quick Tacos", CleanTitle("  Quick   Tacos (Meal)  "))
}

func TestMainIngredient(t *testing.T) {
	assert.Equal(t, "pasta", MainIngredient("Creamy Garlic Pasta"))
	assert.Equal(t, "stir-fry", MainIngredient("Veggie Stir-Fry"))
	assert.Equal(t, "tofu", MainIngredient("The Tofu Bowl"))
	assert.Equal(t, "", MainIngredient("A Big Egg"))
}
