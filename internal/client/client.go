// Package client provides the HTTP client for the jako goods API.
//
// It implements the collaborator contract the session engine consumes:
// event and item CRUD, the all-or-nothing batch create, and receipt
// extraction. Idempotent reads are retried with exponential backoff;
// mutating calls are never retried, to avoid duplicate purchases.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/session"
)

// Ensure Client implements the session engine's collaborator contract.
var _ session.Collaborator = (*Client)(nil)

const (
	defaultTimeout = 30 * time.Second
	maxListTries   = 3
)

// Client calls the jako goods API with a Bearer token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithToken sets the Bearer token up front instead of via Login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API at baseURL. The default underlying
// http.Client carries an explicit request timeout.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges the shared password for a Bearer token and stores it on
// the client for subsequent calls.
func (c *Client) Login(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	path := "/auth?password=" + url.QueryEscape(password)
	if err := c.doJSON(ctx, http.MethodGet, path, "login", nil, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Health checks that the API and its database are reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", "health check", nil, nil)
}

// ListEvents returns every event. Retried on transient failure.
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	return retryList(ctx, func() ([]models.Event, error) {
		var out []models.Event
		err := c.doJSON(ctx, http.MethodGet, "/events", "list events", nil, &out)
		return out, err
	})
}

// CreateEvent creates a new named event.
func (c *Client) CreateEvent(ctx context.Context, name, description string) (models.Event, error) {
	in := map[string]string{"name": name, "description": description}
	var out models.Event
	err := c.doJSON(ctx, http.MethodPost, "/events", "create event", in, &out)
	return out, err
}

// DeleteEvent removes an event and all its goods.
func (c *Client) DeleteEvent(ctx context.Context, event string) error {
	return c.doJSON(ctx, http.MethodDelete, "/events/"+url.PathEscape(event), "delete event", nil, nil)
}

// ListItems returns every committed item for the event. Retried on
// transient failure; an empty sequence is valid.
func (c *Client) ListItems(ctx context.Context, event string) ([]models.Item, error) {
	return retryList(ctx, func() ([]models.Item, error) {
		var out []models.Item
		err := c.doJSON(ctx, http.MethodGet, c.goodsPath(event), "list items", nil, &out)
		return out, err
	})
}

// CreateItem commits one new item and returns it with its assigned id.
func (c *Client) CreateItem(ctx context.Context, event string, item models.NewItem) (models.Item, error) {
	var out models.Item
	err := c.doJSON(ctx, http.MethodPost, c.goodsPath(event), "create item", item, &out)
	return out, err
}

// UpdateItem replaces the fields of an existing item.
func (c *Client) UpdateItem(ctx context.Context, event, id string, item models.NewItem) (models.Item, error) {
	var out models.Item
	path := c.goodsPath(event) + "/" + url.PathEscape(id)
	err := c.doJSON(ctx, http.MethodPut, path, "update item", item, &out)
	return out, err
}

// DeleteItem removes one item from the event's ledger.
func (c *Client) DeleteItem(ctx context.Context, event, id string) error {
	path := c.goodsPath(event) + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, "delete item", nil, nil)
}

// CreateItemBatch commits the whole batch in one call. The server applies
// it in a single transaction, so the ledger sees all of it or none of it.
// Never retried.
func (c *Client) CreateItemBatch(ctx context.Context, event string, items []models.NewItem) error {
	in := map[string][]models.NewItem{"items": items}
	return c.doJSON(ctx, http.MethodPost, c.goodsPath(event)+"/batch", "create item batch", in, nil)
}

// ExtractReceipt uploads a receipt file and returns the extracted
// (label, price) candidates. Failures are reported as UploadError.
func (c *Client) ExtractReceipt(ctx context.Context, filename string, file io.Reader) ([]models.ReceiptCandidate, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &UploadError{Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &UploadError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipts/process", &body)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UploadError{Status: resp.StatusCode, Err: errors.New(readAPIError(resp.Body))}
	}

	var out []models.ReceiptCandidate
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &UploadError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

func (c *Client) goodsPath(event string) string {
	return "/events/" + url.PathEscape(event) + "/goods"
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// doJSON performs one JSON round trip and maps failures onto the error
// taxonomy: 404 wraps ErrNotFound, everything else non-2xx or transport
// level becomes a FetchError.
func (c *Client) doJSON(ctx context.Context, method, path, op string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &FetchError{Op: op, Err: err}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrNotFound, readAPIError(resp.Body))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &FetchError{Op: op, Status: resp.StatusCode, Err: errors.New(readAPIError(resp.Body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readAPIError extracts the message from the API's JSON error envelope,
// falling back to the raw body.
func readAPIError(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return string(raw)
}

// retryList retries an idempotent read up to maxListTries times with
// exponential backoff. Client errors below 500 are permanent.
func retryList[T any](ctx context.Context, fetch func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		out, err := fetch()
		if err != nil {
			var fe *FetchError
			if errors.As(err, &fe) && fe.Status >= 400 && fe.Status < 500 {
				return out, backoff.Permanent(err)
			}
		}
		return out, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(maxListTries))
}
