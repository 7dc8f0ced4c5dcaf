// Package backend talks to the order-management API: the category list and
// order submission.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/auth"
	"github.com/diewo77/go-salesagent/internal/apperr"
	"github.com/diewo77/go-salesagent/internal/models"
)

const (
	categoriesPath = "/items/categories"
	ordersPath     = "/orders"
	// RequestIDHeader correlates a call with the backend's logs.
	RequestIDHeader = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// Client calls the backend with the bearer token found in the request context.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for baseURL. A zero timeout leaves calls
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// FetchCategories returns the remote category list.
func (c *Client) FetchCategories(ctx context.Context) ([]models.RemoteCategory, error) {
	var out []models.RemoteCategory
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitOrder posts an order and returns the document entry assigned by the backend.
func (c *Client) SubmitOrder(ctx context.Context, payload models.OrderPayload) (models.DocEntry, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, ordersPath, payload, &resp); err != nil {
		return "", err
	}
	return resp.DocEntry, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token, err := auth.TokenFromContext(ctx)
	if err != nil {
		return apperr.NewAuth(err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(zap.String("method", method), zap.String("path", path), zap.String("request_id", reqID))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend unreachable", zap.Error(err))
		return apperr.NewNetwork(err)
	}
	defer resp.Body.Close()
	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		detail := eb.Message
		if detail == "" {
			detail = eb.Error
		}
		log.Warn("backend rejected request", zap.String("detail", detail))
		return apperr.NewServer(resp.StatusCode, detail)
	}
	log.Debug("backend call ok")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.NewServer(resp.StatusCode, "invalid response body: "+err.Error())
	}
	return nil
}
