package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrianliechti/wingman-soap/pkg/auth"
	"github.com/adrianliechti/wingman-soap/pkg/cache"
	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/config"
	"github.com/adrianliechti/wingman-soap/pkg/transport"
)

var ErrNoWSDL = errors.New("no wsdl given: use --wsdl, SOAP_WSDL or a config file")

// Target collects what the command line says about the service to talk to.
// Empty fields fall back to the matching config file entry.
type Target struct {
	Config string
	Name   string

	WSDL string
	URL  string

	Service string
	Port    string

	Token    string
	Username string
	Password string

	Options []string
	NoCache bool

	Confirm transport.Confirm
}

// Connect loads the WSDL and returns a client bound to the selected port.
func Connect(ctx context.Context, t Target) (*client.Client, error) {
	svc, err := lookupService(t)

	if err != nil {
		return nil, err
	}

	location := firstOf(t.WSDL, svc.WSDL)

	if location == "" {
		return nil, ErrNoWSDL
	}

	values := maps.Clone(svc.Options)

	if values == nil {
		values = map[string]any{}
	}

	for k, v := range ParseOptions(t.Options) {
		values[k] = v
	}

	options, err := config.NewOptions(values)

	if err != nil {
		return nil, err
	}

	transportOptions, err := transportOptions(t, svc)

	if err != nil {
		return nil, err
	}

	clientOptions := []client.Option{
		client.WithOptions(options),
		client.WithLogger(slog.Default()),
		client.WithHeaders(svc.Headers),
		client.WithService(firstOf(t.Service, svc.Service)),
		client.WithPort(firstOf(t.Port, svc.Port)),
		client.WithTransportOptions(transportOptions...),
	}

	if url := firstOf(t.URL, svc.URL); url != "" {
		clientOptions = append(clientOptions, client.WithURL(url))
	}

	if !t.NoCache && isRemote(location) {
		c, err := openCache(svc.Cache, options)

		if err != nil {
			slog.Warn("wsdl cache disabled", "error", err)
		} else {
			clientOptions = append(clientOptions, client.WithCache(c))
		}
	}

	return client.New(ctx, location, clientOptions...)
}

// ParseOptions turns key=value pairs into option values. true and false
// become booleans, everything else stays a string.
func ParseOptions(pairs []string) map[string]any {
	result := map[string]any{}

	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")

		key = strings.TrimSpace(key)

		if key == "" {
			continue
		}

		if b, err := strconv.ParseBool(value); err == nil {
			result[key] = b
			continue
		}

		result[key] = value
	}

	return result
}

func lookupService(t Target) (config.Service, error) {
	var cfg *config.Config
	var err error

	if t.Config != "" {
		cfg, err = config.Parse(t.Config)
	} else {
		cfg, err = config.Discover()
	}

	if err != nil {
		return config.Service{}, err
	}

	if cfg == nil {
		if t.Name != "" {
			return config.Service{}, fmt.Errorf("service %q: no config file found", t.Name)
		}

		return config.Service{}, nil
	}

	if t.Name != "" {
		svc, ok := cfg.Services[t.Name]

		if !ok {
			return config.Service{}, fmt.Errorf("service %q not found in config", t.Name)
		}

		return svc, nil
	}

	if t.WSDL == "" && len(cfg.Services) == 1 {
		for _, svc := range cfg.Services {
			return svc, nil
		}
	}

	return config.Service{}, nil
}

func transportOptions(t Target, svc config.Service) ([]transport.Option, error) {
	var options []transport.Option

	if len(svc.Headers) > 0 {
		options = append(options, transport.WithHeaders(svc.Headers))
	}

	if t.Confirm != nil {
		options = append(options, transport.WithConfirm(t.Confirm))
	}

	a := svc.Auth

	if a == nil {
		a = &config.Auth{}
	}

	token := firstOf(t.Token, a.Token)
	username := firstOf(t.Username, a.Username)
	password := firstOf(t.Password, a.Password)

	switch strings.ToLower(a.Type) {
	case "azure":
		tokens, err := auth.NewAzure(a.Scopes...)

		if err != nil {
			return nil, err
		}

		options = append(options, transport.WithToken(tokens))

	case "", "bearer", "basic":
		if token != "" {
			options = append(options, transport.WithBearer(token))
		}

		if username != "" || password != "" {
			options = append(options, transport.WithBasicAuth(username, password))
		}

	default:
		return nil, fmt.Errorf("unsupported auth type %q", a.Type)
	}

	return options, nil
}

// OpenCache opens the WSDL cache the target would use.
func OpenCache(t Target) (*cache.Cache, error) {
	svc, err := lookupService(t)

	if err != nil {
		return nil, err
	}

	options, err := config.NewOptions(svc.Options)

	if err != nil {
		return nil, err
	}

	return openCache(svc.Cache, options)
}

func openCache(c *config.Cache, options *config.Options) (*cache.Cache, error) {
	path := ""
	duration := options.Duration(config.OptionCache)

	if c != nil {
		path = c.Path

		if c.Duration != "" {
			d, err := time.ParseDuration(c.Duration)

			if err != nil {
				return nil, fmt.Errorf("cache duration: %w", err)
			}

			duration = d
		}
	}

	if path == "" {
		dir, err := CacheDir()

		if err != nil {
			return nil, err
		}

		path = filepath.Join(dir, "wsdl.db")
	}

	return cache.New(path, duration)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
