package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"storefront-cart/internal/domain"
)

// Client is a stateless HTTP client for the authenticated-cart endpoints.
// Every call carries the caller's bearer token; the server stays the source
// of truth and no partial-apply semantics are assumed on failure.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// New builds a Client. The timeout bounds every request so a stuck gateway
// call is reported as a failure instead of blocking the UI.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type countResponse struct {
	Count int `json:"count"`
}

type userResponse struct {
	ID   string             `json:"id"`
	Cart []domain.MergeItem `json:"cart"`
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

type mergeRequest struct {
	Items []domain.MergeItem `json:"items"`
}

// FetchCount returns the authenticated cart's item count. When the dedicated
// count endpoint is unavailable it falls back to the user profile and sums
// the cart array. An error means both paths failed; callers must keep their
// previously known count.
func (c *Client) FetchCount(ctx context.Context, token, userID string) (int, error) {
	var count countResponse
	err := c.do(ctx, http.MethodGet, "/cart/"+userID+"/count", token, nil, &count)
	if err == nil {
		return count.Count, nil
	}
	c.logger.Printf("gateway: count endpoint failed, using profile fallback: %v", err)

	var user userResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+userID, token, nil, &user); err != nil {
		return 0, err
	}
	total := 0
	for _, item := range user.Cart {
		total += item.Quantity
	}
	return total, nil
}

// AddItem adds quantity of the product to the user's server-side cart.
func (c *Client) AddItem(ctx context.Context, token, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/"+userID+"/add", token, itemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateItem sets the quantity of an existing line.
func (c *Client) UpdateItem(ctx context.Context, token, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "/cart/"+userID+"/update", token, itemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// RemoveItem removes the product's line from the user's cart.
func (c *Client) RemoveItem(ctx context.Context, token, userID, productID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+userID, token, itemRequest{ProductID: productID}, nil)
}

// MergeGuestCart sends the guest cart lines for server-side merge. The server
// sums quantities for overlapping products and unions the rest; the client
// never re-derives merge results locally.
func (c *Client) MergeGuestCart(ctx context.Context, token, userID string, items []domain.MergeItem) error {
	return c.do(ctx, http.MethodPost, "/cart/"+userID+"/merge", token, mergeRequest{Items: items}, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the identity and credential issued at login.
type LoginResult struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out)
	return out, err
}

// FetchProduct reads a product from the catalog, used to populate line
// snapshots at add-time.
func (c *Client) FetchProduct(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := c.do(ctx, http.MethodGet, "/products/"+id, "", nil, &product)
	return product, err
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}
