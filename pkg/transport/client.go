package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const ContentType = "text/xml; charset=utf-8"

// Confirm is asked before a request is sent; a non-nil error aborts it.
type Confirm func(url, action string, body []byte) error

// TokenSource supplies bearer tokens per request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StatusError struct {
	StatusCode int
	Status     string

	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("soap endpoint returned %s", e.Status)
	}

	return fmt.Sprintf("soap endpoint returned %s: %s", e.Status, e.Body)
}

type Client struct {
	URL string

	bearer   string
	username string
	password string

	tokens  TokenSource
	headers map[string]string

	client  *http.Client
	confirm Confirm
}

type Option func(*Client)

func New(endpoint string, options ...Option) (*Client, error) {
	url, err := url.Parse(endpoint)

	if err != nil {
		return nil, err
	}

	if !url.IsAbs() || url.Host == "" {
		return nil, fmt.Errorf("invalid endpoint URL %q", endpoint)
	}

	c := &Client{
		URL: url.String(),

		client: &http.Client{},
	}

	for _, o := range options {
		o(c)
	}

	return c, nil
}

func WithBearer(bearer string) Option {
	return func(c *Client) {
		c.bearer = bearer
	}
}

func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

func WithToken(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithConfirm(confirm Confirm) Option {
	return func(c *Client) {
		c.confirm = confirm
	}
}

// Execute posts a request envelope and returns the reply envelope. Faults
// arrive with status 500 and are returned as data for the caller to decode.
func (c *Client) Execute(ctx context.Context, action string, body []byte) ([]byte, error) {
	if c.confirm != nil {
		if err := c.confirm(c.URL, action, body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("SOAPAction", `"`+action+`"`)

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)

		if err != nil {
			return nil, fmt.Errorf("acquiring token: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusInternalServerError && len(result) > 0 {
		return result, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,

			Body: result,
		}
	}

	return result, nil
}
