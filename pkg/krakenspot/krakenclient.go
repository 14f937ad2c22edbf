// Package krakenspot is a client for the Kraken Spot REST API. It covers the
// public market data endpoints and the private account data endpoints, and
// takes care of the parts that are easy to get wrong: option validation,
// nonce issuance, request signing and classification of the response
// envelope.
//
// The krakenclient.go file contains the client struct, its constructor and
// options, and the logger setup. Sending is delegated to a Transport so the
// embedding application decides on timeouts, rate limiting and retries (see
// the transport subpackage).
package krakenspot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

type KrakenClient struct {
	APIKey      string
	ErrorLogger zerolog.Logger

	signer    *Signer
	nonces    NonceGenerator
	transport Transport
	baseURL   string
}

type ClientOption func(kc *KrakenClient)

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) ClientOption {
	return func(kc *KrakenClient) {
		kc.transport = t
	}
}

// WithBaseURL points the client at another host, e.g. an httptest server.
// The /0/public/ and /0/private/ prefixes are appended to it.
func WithBaseURL(base string) ClientOption {
	return func(kc *KrakenClient) {
		kc.baseURL = strings.TrimRight(base, "/")
	}
}

// WithNonceGenerator shares a generator between clients using the same key.
// A nil generator keeps the default.
func WithNonceGenerator(n NonceGenerator) ClientOption {
	return func(kc *KrakenClient) {
		if n != nil {
			kc.nonces = n
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(kc *KrakenClient) {
		kc.ErrorLogger = logger
	}
}

// Creates new KrakenClient for Kraken API with keys passed to args 'apiKey'
// and 'apiSecret'. The secret is base64 decoded here so a malformed secret is
// reported before any request is made. Passing two empty strings creates a
// client that can only call public endpoints.
//
// # Example Usage:
//
//	kc, err := krakenspot.NewKrakenClient(os.Getenv("KRAKEN_API_KEY"), os.Getenv("KRAKEN_API_SECRET"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := kc.GetBalance(ctx)
func NewKrakenClient(apiKey, apiSecret string, opts ...ClientOption) (*KrakenClient, error) {
	kc := &KrakenClient{
		APIKey:      apiKey,
		ErrorLogger: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel),
		nonces:      NewClockNonce(),
		transport:   &HTTPTransport{},
		baseURL:     baseUrl,
	}
	switch {
	case apiKey == "" && apiSecret == "":
	case apiKey == "" || apiSecret == "":
		return nil, &SigningError{Err: fmt.Errorf("%w; both api key and secret are required", ErrMissingCredentials)}
	default:
		signer, err := NewSigner(apiSecret)
		if err != nil {
			return nil, err
		}
		kc.signer = signer
	}
	for _, opt := range opts {
		opt(kc)
	}
	return kc, nil
}

// SetErrorLogger creates a new logger writing to 'output' and sets it as the
// client's ErrorLogger. It returns the newly created logger.
//
// # Example Usage:
//
//	file, err := os.OpenFile("log.txt", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//	logger := kc.SetErrorLogger(file)
func (kc *KrakenClient) SetErrorLogger(output io.Writer) zerolog.Logger {
	logger := zerolog.New(output).With().Timestamp().Logger()
	kc.ErrorLogger = logger
	return logger
}

// Call invokes any registered endpoint by name. It is what the per-endpoint
// methods use and is handy for generic tooling.
func (kc *KrakenClient) Call(ctx context.Context, endpoint string, opts Options) (*Response, error) {
	spec, ok := LookupEndpoint(endpoint)
	if !ok {
		return nil, fmt.Errorf("%w | %s", ErrUnknownEndpoint, endpoint)
	}
	return kc.do(ctx, spec, opts)
}

func (kc *KrakenClient) call(ctx context.Context, endpoint string, opts []Options) (*Response, error) {
	if len(opts) > 1 {
		return nil, fmt.Errorf("%w; expected 0 or 1 Options", ErrTooManyArgs)
	}
	var o Options
	if len(opts) == 1 {
		o = opts[0]
	}
	return kc.Call(ctx, endpoint, o)
}

// do validates, builds and sends exactly one request.
func (kc *KrakenClient) do(ctx context.Context, spec EndpointSpec, opts Options) (*Response, error) {
	envelope, err := kc.buildRequest(spec, opts)
	if err != nil {
		return nil, err
	}

	logger := kc.ErrorLogger.With().
		Str("endpoint", spec.Name).
		Str("request_id", newRequestID()).
		Logger()
	logger.Debug().Bool("private", spec.Private).Msg("sending request")

	start := time.Now()
	body, err := kc.transport.Do(ctx, envelope)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, &TransportError{Endpoint: spec.Name, Err: err}
	}

	resp, err := parseEnvelope(spec.Name, body)
	if err != nil {
		logger.Error().Err(err).Msg("error response")
		return nil, err
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("request completed")
	return resp, nil
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
