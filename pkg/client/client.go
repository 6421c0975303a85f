package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adrianliechti/wingman-soap/pkg/config"
	"github.com/adrianliechti/wingman-soap/pkg/envelope"
	"github.com/adrianliechti/wingman-soap/pkg/soap"
	"github.com/adrianliechti/wingman-soap/pkg/transport"
	"github.com/adrianliechti/wingman-soap/pkg/wsdl"
)

// Transport sends a request envelope and returns the reply envelope.
type Transport interface {
	Execute(ctx context.Context, action string, body []byte) ([]byte, error)
}

var _ Transport = (*transport.Client)(nil)

type Client struct {
	location string
	document []byte

	definitions *wsdl.Definitions
	service     *wsdl.Service
	port        *wsdl.Port

	url       string
	transport Transport

	options *config.Options
	logger  *slog.Logger

	mu sync.Mutex

	lastSent     []byte
	lastReceived []byte
}

type settings struct {
	url       string
	transport Transport
	cache     wsdl.Cache
	headers   map[string]string

	service string
	port    string

	options *config.Options
	logger  *slog.Logger

	transportOptions []transport.Option
}

type Option func(*settings)

// WithURL overrides the endpoint address declared by the port.
func WithURL(url string) Option {
	return func(s *settings) {
		s.url = url
	}
}

func WithTransport(t Transport) Option {
	return func(s *settings) {
		s.transport = t
	}
}

// WithTransportOptions configures the default HTTP transport.
func WithTransportOptions(options ...transport.Option) Option {
	return func(s *settings) {
		s.transportOptions = append(s.transportOptions, options...)
	}
}

func WithCache(cache wsdl.Cache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// WithHeaders adds headers to WSDL downloads.
func WithHeaders(headers map[string]string) Option {
	return func(s *settings) {
		s.headers = headers
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithOptions(options *config.Options) Option {
	return func(s *settings) {
		s.options = options
	}
}

func WithService(name string) Option {
	return func(s *settings) {
		s.service = name
	}
}

func WithPort(name string) Option {
	return func(s *settings) {
		s.port = name
	}
}

// New loads the WSDL document at location and binds to one of its ports.
func New(ctx context.Context, location string, options ...Option) (*Client, error) {
	s := configure(options)

	var loadOptions []wsdl.LoadOption

	if s.cache != nil {
		loadOptions = append(loadOptions, wsdl.WithCache(s.cache))
	}

	if len(s.headers) > 0 {
		loadOptions = append(loadOptions, wsdl.WithHeaders(s.headers))
	}

	definitions, document, err := wsdl.Load(ctx, location, loadOptions...)

	if err != nil {
		return nil, err
	}

	return build(location, document, definitions, s)
}

// FromDocument binds to a WSDL document that is already in memory.
func FromDocument(document []byte, options ...Option) (*Client, error) {
	definitions, err := wsdl.Parse(document)

	if err != nil {
		return nil, err
	}

	return build("", document, definitions, configure(options))
}

func configure(options []Option) *settings {
	s := &settings{}

	for _, o := range options {
		o(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.options == nil {
		s.options, _ = config.NewOptions(nil)
	}

	return s
}

func build(location string, document []byte, definitions *wsdl.Definitions, s *settings) (*Client, error) {
	service, err := definitions.Service(s.service)

	if err != nil {
		return nil, err
	}

	port, err := service.Port(s.port)

	if err != nil {
		return nil, err
	}

	url := s.url

	if url == "" {
		url = s.options.String(config.OptionLocation)
	}

	if url == "" {
		url = port.Location
	}

	c := &Client{
		location: location,
		document: document,

		definitions: definitions,
		service:     service,
		port:        port,

		url:       url,
		transport: s.transport,

		options: s.options,
		logger:  s.logger,
	}

	if c.transport == nil && url != "" {
		options := append([]transport.Option{transport.WithTimeout(s.options.Duration(config.OptionTimeout))}, s.transportOptions...)

		t, err := transport.New(url, options...)

		if err != nil {
			return nil, err
		}

		c.transport = t
	}

	c.logger.Debug("wsdl loaded", "service", service.Name, "port", port.Name, "operations", len(port.Order), "url", url)

	return c, nil
}

func (c *Client) Location() string {
	return c.location
}

func (c *Client) Document() []byte {
	return c.document
}

func (c *Client) Definitions() *wsdl.Definitions {
	return c.definitions
}

func (c *Client) Port() *wsdl.Port {
	return c.port
}

func (c *Client) Options() *config.Options {
	return c.options
}

func (c *Client) URL() string {
	return c.url
}

// Operations returns the overload sets of the bound port in declaration order.
func (c *Client) Operations() []*soap.OverloadSet {
	return c.port.Sets()
}

// Service returns a fresh invocation for the named operation.
func (c *Client) Service(name string) (*soap.Invocation, error) {
	set, ok := c.port.Operation(name)

	if !ok {
		return nil, &soap.ResolutionError{
			Operation: name,

			Kind:   soap.ErrMethodNotFound,
			Detail: fmt.Sprintf("port %q has no such operation", c.port.Name),
		}
	}

	return set.Invocation(), nil
}

type injectKey struct{}

// Inject returns a context whose calls are answered with reply instead of
// going over the network.
func Inject(ctx context.Context, reply []byte) context.Context {
	return context.WithValue(ctx, injectKey{}, reply)
}

// LastSent returns the most recent request envelope of any call.
func (c *Client) LastSent() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastSent
}

func (c *Client) LastReceived() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastReceived
}

// Invoke resolves name and calls it with args.
func (c *Client) Invoke(ctx context.Context, name string, args soap.Args) (*envelope.Response, error) {
	inv, err := c.Service(name)

	if err != nil {
		return nil, err
	}

	return c.Call(ctx, inv, args)
}

// Prepare resolves and binds args and renders the request envelope without
// sending it.
func (c *Client) Prepare(inv *soap.Invocation, args soap.Args) (*soap.Call, []byte, error) {
	call, err := inv.Resolve(args)

	if err != nil {
		return nil, nil, err
	}

	options := []envelope.Option{
		envelope.WithSchema(c.port.Signature(call.Operation), c.definitions),
	}

	if c.options.Bool(config.OptionPrettyXML) {
		options = append(options, envelope.WithPretty())
	}

	data, err := envelope.Marshal(call, options...)

	if err != nil {
		return nil, nil, err
	}

	return call, data, nil
}

// Call resolves the invocation against args, sends the request and decodes
// the reply.
func (c *Client) Call(ctx context.Context, inv *soap.Invocation, args soap.Args) (*envelope.Response, error) {
	call, data, err := c.Prepare(inv, args)

	if err != nil {
		return nil, err
	}

	op := call.Operation

	c.logger.Debug("soap call", "operation", op.Name, "accepts", op.Accepts, "parts", call.Args.Names())

	reply, err := c.send(ctx, op, data)

	if err != nil {
		return nil, err
	}

	if c.options.Bool(config.OptionRetXML) {
		return &envelope.Response{Operation: op, Raw: reply}, nil
	}

	resp, err := envelope.Unmarshal(reply, op)

	var fault *envelope.Fault

	if errors.As(err, &fault) && !c.options.Bool(config.OptionFaults) {
		c.logger.Debug("soap fault", "operation", op.Name, "code", fault.Code)
		return &envelope.Response{Operation: op, Raw: reply, Fault: fault}, nil
	}

	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, op *soap.Operation, data []byte) ([]byte, error) {
	c.mu.Lock()
	c.lastSent = data
	c.mu.Unlock()

	reply, _ := ctx.Value(injectKey{}).([]byte)

	if reply == nil {
		if c.transport == nil {
			return nil, errors.New("no endpoint address configured")
		}

		var err error

		reply, err = c.transport.Execute(ctx, op.Action, data)

		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.lastReceived = reply
	c.mu.Unlock()

	return reply, nil
}
