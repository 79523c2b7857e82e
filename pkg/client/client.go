// Package client is a small HTTP client for the store rating API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client talks to one API server. It is safe for concurrent use once configured.
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL, e.g. http://localhost:5000.
func New(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ratingctl/1.0")
	return &Client{http: r}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) *Client {
	c.http.SetAuthToken(token)
	return c
}

func call[T any](ctx context.Context, c *Client, method, path string, body interface{}, query map[string]string) (T, error) {
	var (
		out  envelope[T]
		fail errorEnvelope
		zero T
	)

	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&fail)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := fail.Message
		if msg == "" {
			msg = resp.Status()
		}
		return zero, &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return out.Data, nil
}

// ==================== auth ====================

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserInfo, error) {
	return call[*dto.UserInfo](ctx, c, http.MethodPost, "/api/auth/register", req, nil)
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	resp, err := call[*dto.LoginResponse](ctx, c, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return resp, nil
}

func (c *Client) Profile(ctx context.Context) (*dto.UserInfo, error) {
	return call[*dto.UserInfo](ctx, c, http.MethodGet, "/api/auth/profile", nil, nil)
}

// ==================== stores ====================

func (c *Client) ListStores(ctx context.Context, search string, page, pageSize int) (*dto.StoreListResponse, error) {
	query := map[string]string{}
	if search != "" {
		query["search"] = search
	}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
	if pageSize > 0 {
		query["page_size"] = strconv.Itoa(pageSize)
	}
	return call[*dto.StoreListResponse](ctx, c, http.MethodGet, "/api/stores", nil, query)
}

func (c *Client) StoreAverage(ctx context.Context, storeID int64) (*model.StoreAggregate, error) {
	return call[*model.StoreAggregate](ctx, c, http.MethodGet, fmt.Sprintf("/api/stores/%d/average", storeID), nil, nil)
}

func (c *Client) StoreRatings(ctx context.Context, storeID int64) (*dto.StoreRatingsResponse, error) {
	return call[*dto.StoreRatingsResponse](ctx, c, http.MethodGet, fmt.Sprintf("/api/stores/%d/ratings", storeID), nil, nil)
}

// ==================== ratings ====================

func (c *Client) SubmitRating(ctx context.Context, storeID int64, score int) (*dto.SubmitRatingResponse, error) {
	return call[*dto.SubmitRatingResponse](ctx, c, http.MethodPost, "/api/ratings",
		dto.SubmitRatingRequest{StoreID: storeID, Score: score}, nil)
}

func (c *Client) MyRatings(ctx context.Context) ([]dto.RatingInfo, error) {
	return call[[]dto.RatingInfo](ctx, c, http.MethodGet, "/api/ratings/user", nil, nil)
}

func (c *Client) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	return call[*model.PlatformStats](ctx, c, http.MethodGet, "/api/ratings/stats", nil, nil)
}
