// Package client is a typed HTTP client for the purchase order API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	poapp "github.com/erp/purchase-orders/internal/application/purchasing"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxTries    = 3
	defaultRetryWait   = 200 * time.Millisecond
	maxErrorBodyLength = 64 << 10
)

// Client calls the purchase order REST API. Reads are retried on transport
// failures and 502/503/504; writes are sent once.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
	maxTries   uint
	retryWait  time.Duration
	newKey     func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for retry notices
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetry sets how many times a read is attempted and the first backoff interval.
// maxTries of 1 disables retries.
func WithRetry(maxTries uint, initialWait time.Duration) Option {
	return func(c *Client) {
		c.maxTries = max(maxTries, 1)
		c.retryWait = initialWait
	}
}

// WithIdempotencyKeys overrides the generator of Idempotency-Key values
func WithIdempotencyKeys(next func() string) Option {
	return func(c *Client) {
		c.newKey = next
	}
}

// New creates a client for the API rooted at baseURL, e.g. "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
		maxTries:   defaultMaxTries,
		retryWait:  defaultRetryWait,
		newKey:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListOptions are the query parameters of List. Zero values are omitted.
type ListOptions struct {
	Search    string
	Status    string
	From      string
	To        string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", o.Search)
	set("status", o.Status)
	set("from", o.From)
	set("to", o.To)
	set("sortBy", o.SortBy)
	set("sortOrder", o.SortOrder)
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	return v
}

// ListResult is one page, or the whole collection, of purchase orders
type ListResult struct {
	Items    []poapp.PurchaseOrderResponse
	Total    int64
	Page     int
	PageSize int
}

// List fetches purchase orders. Total comes from X-Total-Count.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	var items []poapp.PurchaseOrderResponse
	header, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      []string{"purchase-orders"},
		query:     opts.values(),
		retryable: true,
	}, &items)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: items, Total: int64(len(items))}
	if total, err := strconv.ParseInt(header.Get(dto.HeaderTotalCount), 10, 64); err == nil {
		result.Total = total
	}
	result.Page, _ = strconv.Atoi(header.Get(dto.HeaderPage))
	result.PageSize, _ = strconv.Atoi(header.Get(dto.HeaderPageSize))
	if result.Items == nil {
		result.Items = []poapp.PurchaseOrderResponse{}
	}
	return result, nil
}

// Get fetches one purchase order
func (c *Client) Get(ctx context.Context, id int64) (*poapp.PurchaseOrderResponse, error) {
	var order poapp.PurchaseOrderResponse
	if _, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      []string{"purchase-orders", strconv.FormatInt(id, 10)},
		retryable: true,
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Create stores a new purchase order under a fresh Idempotency-Key. The key
// only lets the server drop a second delivery of this one call; callers that
// retry a create use CreateWithKey with the key of the first attempt.
func (c *Client) Create(ctx context.Context, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error) {
	return c.CreateWithKey(ctx, c.newKey(), req)
}

// CreateWithKey stores a new purchase order under key. A key the server has
// already processed is answered with an APIError for which
// IsDuplicateRequest reports true.
func (c *Client) CreateWithKey(ctx context.Context, key string, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error) {
	var order poapp.PurchaseOrderResponse
	if _, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"purchase-orders"},
		body:   req,
		header: http.Header{dto.HeaderIdempotencyKey: []string{key}},
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Update replaces purchase order id. The body id is set to id.
func (c *Client) Update(ctx context.Context, id int64, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error) {
	var order poapp.PurchaseOrderResponse
	if _, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   []string{"purchase-orders", strconv.FormatInt(id, 10)},
		body:   poapp.UpdatePurchaseOrderRequest{ID: &id, CreatePurchaseOrderRequest: req},
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes purchase order id
func (c *Client) Delete(ctx context.Context, id int64) error {
	var msg dto.MessageResponse
	_, err := c.do(ctx, call{
		method: http.MethodDelete,
		path:   []string{"purchase-orders", strconv.FormatInt(id, 10)},
	}, &msg)
	return err
}

// NextPoNumber asks the server for the next free PO Number of year.
// A year of 0 lets the server pick the current year.
func (c *Client) NextPoNumber(ctx context.Context, year int) (string, error) {
	query := url.Values{}
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}
	var next poapp.NextPoNumberResponse
	if _, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      []string{"purchase-orders", "next-number"},
		query:     query,
		retryable: true,
	}, &next); err != nil {
		return "", err
	}
	return next.PoNumber, nil
}

type call struct {
	method    string
	path      []string
	query     url.Values
	body      any
	header    http.Header
	retryable bool
}

func (c *Client) do(ctx context.Context, req call, out any) (http.Header, error) {
	if !req.retryable || c.maxTries <= 1 {
		return c.roundTrip(ctx, req, out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryWait

	return backoff.Retry(ctx, func() (http.Header, error) {
		header, err := c.roundTrip(ctx, req, out)
		if err != nil && !isTransient(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return header, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Warn("Retrying purchase order API call",
				zap.String("method", req.method),
				zap.Strings("path", req.path),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) (http.Header, error) {
	target := c.baseURL.JoinPath(req.path...)
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range req.header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s %s response: %w", req.method, target.Path, err)
		}
	}
	return resp.Header, nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodyLength)).Decode(&body); err != nil || body.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.Message = body.Message
	apiErr.Errors = body.Errors
	apiErr.FieldErrors = body.FieldErrors
	apiErr.RequestID = body.RequestID
	return apiErr
}

func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
