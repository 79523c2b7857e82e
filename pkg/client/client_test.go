package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_rating/internal/api/dto"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "Secret#123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"unauthorized: invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"message":"logged in","data":{"access_token":"tok-1","refresh_token":"ref-1","user":{"id":3,"email":"a@example.com","role":"user"}}}`))
	})

	mux.HandleFunc("/api/ratings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"missing authorization header"}`))
			return
		}
		var req dto.SubmitRatingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Score < 1 || req.Score > 5 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"message":"validation failed: score must be an integer between 1 and 5"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0, "message": "rating submitted",
			"data": map[string]interface{}{"id": 1, "user_id": 3, "store_id": req.StoreID, "store_name": "Corner", "score": req.Score, "created": true},
		})
	})

	mux.HandleFunc("/api/stores", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "corner", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"list":[{"id":7,"name":"Corner","average":4.5,"rating_count":2}],"total":1,"page":1,"page_size":20}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginThenRate(t *testing.T) {
	srv := newFakeAPI(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.SubmitRating(ctx, 7, 4)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	login, err := c.Login(ctx, "a@example.com", "Secret#123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", login.AccessToken)
	assert.Equal(t, int64(3), login.User.ID)

	rating, err := c.SubmitRating(ctx, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rating.StoreID)
	assert.Equal(t, "Corner", rating.StoreName)
	assert.True(t, rating.Created)

	_, err = c.SubmitRating(ctx, 7, 9)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "score")
}

func TestClient_LoginFailure(t *testing.T) {
	srv := newFakeAPI(t)
	_, err := New(srv.URL).Login(context.Background(), "a@example.com", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "invalid email or password")
}

func TestClient_ListStores(t *testing.T) {
	srv := newFakeAPI(t)
	resp, err := New(srv.URL).ListStores(context.Background(), "corner", 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, 4.5, resp.List[0].Average)
	assert.Equal(t, int64(2), resp.List[0].RatingCount)
}
