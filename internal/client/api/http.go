package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

// TokenSource supplies the current bearer token, or "" when the session is
// unauthenticated. The session manager is the usual implementation.
type TokenSource func() string

// HTTPClient talks to the backend over REST. Every request carries a bounded
// timeout (via the underlying http.Client), honors ctx cancellation, and is
// tagged with an X-Request-Id header.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	token   TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL. timeout applies
// to every round-trip; pass the session manager's token accessor as token.
func NewHTTPClient(baseURL string, timeout time.Duration, token TokenSource, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &HTTPClient{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		token:   token,
		log:     log,
	}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method string, body io.Reader, elem ...string) (*http.Request, error) {
	u := c.baseURL.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// do executes req, decodes a 2xx JSON body into out (when out != nil), and
// maps failures through errFor401 for the 401 case.
func (c *HTTPClient) do(req *http.Request, out any, errFor401 error) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.mapError(resp, errFor401)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response, errFor401 error) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errFor401
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return parseValidationError(body)
	}
	c.log.Error(resp.Request.Context(), "unexpected backend status",
		"status", resp.StatusCode, "path", resp.Request.URL.Path)
	return fmt.Errorf("%w: unexpected status %d", common.ErrInternal, resp.StatusCode)
}

// parseValidationError extracts field-level detail from an error body of the
// form {"detail": "..."} or {"detail": [{"loc": [...], "msg": "..."}]}.
func parseValidationError(body []byte) error {
	ve := &common.ValidationError{Fields: map[string]string{}}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
			ve.Message = msg
			return ve
		}
		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			for _, it := range items {
				field := "payload"
				if n := len(it.Loc); n > 0 {
					if s, ok := it.Loc[n-1].(string); ok {
						field = s
					}
				}
				ve.Fields[field] = it.Msg
			}
			return ve
		}
	}
	ve.Message = "request rejected"
	return ve
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, strings.NewReader(form.Encode()), "identity", "token")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tr tokenResponse
	if err := c.do(req, &tr, common.ErrInvalidCredentials); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", common.ErrInternal)
	}
	return tr.AccessToken, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "identity", "me")
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := c.do(req, &u, common.ErrInvalidCredentials); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(payload), "identity", "register")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil, common.ErrInvalidCredentials)
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "catalog", "categories")
	if err != nil {
		return nil, err
	}
	var cats []models.Category
	if err := c.do(req, &cats, common.ErrAuthRequired); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) Products(ctx context.Context, categoryID int64) ([]models.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "catalog", "products")
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	if categoryID == 0 {
		q.Set("category", "all")
	} else {
		q.Set("category", strconv.FormatInt(categoryID, 10))
	}
	req.URL.RawQuery = q.Encode()

	var products []models.Product
	if err := c.do(req, &products, common.ErrAuthRequired); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) Cart(ctx context.Context) ([]models.CartItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "cart")
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := c.do(req, &items, common.ErrAuthRequired); err != nil {
		return nil, err
	}
	return items, nil
}

type cartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (c *HTTPClient) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	payload, err := json.Marshal(cartItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(payload), "cart", "items")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil, common.ErrAuthRequired)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, productID int64, quantity int) error {
	payload, err := json.Marshal(quantityRequest{Quantity: quantity})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, bytes.NewReader(payload), "cart", "items", strconv.FormatInt(productID, 10))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil, common.ErrAuthRequired)
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, productID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil, "cart", "items", strconv.FormatInt(productID, 10))
	if err != nil {
		return err
	}
	return c.do(req, nil, common.ErrAuthRequired)
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil, "cart")
	if err != nil {
		return err
	}
	return c.do(req, nil, common.ErrAuthRequired)
}
