package wsdl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// Cache stores fetched WSDL documents by location.
type Cache interface {
	Get(ctx context.Context, location string) ([]byte, bool, error)
	Put(ctx context.Context, location string, data []byte, headers map[string]string) error
}

type loader struct {
	client *http.Client
	cache  Cache

	headers map[string]string
}

type LoadOption func(*loader)

func WithCache(cache Cache) LoadOption {
	return func(l *loader) {
		l.cache = cache
	}
}

func WithHTTPClient(client *http.Client) LoadOption {
	return func(l *loader) {
		l.client = client
	}
}

func WithHeaders(headers map[string]string) LoadOption {
	return func(l *loader) {
		l.headers = headers
	}
}

// Load reads and parses a WSDL document from a file path or an http(s) URL.
func Load(ctx context.Context, location string, options ...LoadOption) (*Definitions, []byte, error) {
	l := &loader{
		client: http.DefaultClient,
	}

	for _, o := range options {
		o(l)
	}

	data, err := l.read(ctx, location)

	if err != nil {
		return nil, nil, err
	}

	d, err := Parse(data)

	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", location, err)
	}

	return d, data, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *loader) read(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(strings.TrimPrefix(location, "file://"))
	}

	if l.cache != nil {
		data, ok, err := l.cache.Get(ctx, location)

		if err != nil {
			slog.Warn("wsdl cache lookup failed", "location", location, "error", err)
		}

		if ok {
			slog.Debug("wsdl cache hit", "location", location)
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)

	if err != nil {
		return nil, err
	}

	for k, v := range l.headers {
		req.Header.Set(k, v)
	}

	resp, err := l.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: %s", location, resp.Status)
	}

	if l.cache != nil {
		headers := map[string]string{
			"Content-Type":  resp.Header.Get("Content-Type"),
			"Last-Modified": resp.Header.Get("Last-Modified"),
		}

		if err := l.cache.Put(ctx, location, data, headers); err != nil {
			slog.Warn("wsdl cache store failed", "location", location, "error", err)
		}
	}

	return data, nil
}
