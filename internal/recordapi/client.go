package recordapi

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

	"github.com/abhisek/learnquest/internal/store"
)

// Client is a store.Backend backed by a record API server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ store.Backend = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid record api url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) endpoint(collection string, suffix ...string) string {
	parts := append([]string{c.baseURL + BasePath, url.PathEscape(collection)}, suffix...)
	return strings.Join(parts, "/")
}

// do sends body as JSON and decodes the envelope. Any response with
// success=false is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (Envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return Envelope{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8*maxBodyBytes)).Decode(&env); err != nil {
		return Envelope{}, &APIError{StatusCode: resp.StatusCode, Code: CodeInternal, Message: "undecodable response: " + err.Error()}
	}
	if !env.Success {
		code := env.Code
		if code == "" {
			code = CodeInternal
		}
		return Envelope{}, &APIError{StatusCode: resp.StatusCode, Code: code, Message: env.Message}
	}
	return env, nil
}

func (c *Client) Fetch(ctx context.Context, collection string, q store.Query) ([]json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPost, c.endpoint(collection, "query"), q)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(env.Data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s records: %w", collection, err)
	}
	return docs, nil
}

func (c *Client) FetchByID(ctx context.Context, collection string, id int) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, c.endpoint(collection, strconv.Itoa(id)), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Create(ctx context.Context, collection string, records []json.RawMessage) ([]store.ItemResult, error) {
	return c.batch(ctx, http.MethodPost, collection, RecordsRequest{Records: records}, len(records))
}

func (c *Client) Update(ctx context.Context, collection string, records []json.RawMessage) ([]store.ItemResult, error) {
	return c.batch(ctx, http.MethodPut, collection, RecordsRequest{Records: records}, len(records))
}

func (c *Client) Delete(ctx context.Context, collection string, ids []int) ([]store.ItemResult, error) {
	return c.batch(ctx, http.MethodDelete, collection, DeleteRequest{RecordIDs: ids}, len(ids))
}

func (c *Client) batch(ctx context.Context, method, collection string, body any, n int) ([]store.ItemResult, error) {
	if n == 0 {
		return []store.ItemResult{}, nil
	}
	env, err := c.do(ctx, method, c.endpoint(collection), body)
	if err != nil {
		return nil, err
	}
	if len(env.Results) != n {
		return nil, fmt.Errorf("%s %s: got %d results for %d records", method, collection, len(env.Results), n)
	}
	return env.Results, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
