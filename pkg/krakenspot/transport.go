package krakenspot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Transport sends one RequestEnvelope and returns the raw response body.
// Retries, rate limiting and timeouts are the transport's business; the
// client never resends an envelope.
type Transport interface {
	Do(ctx context.Context, req *RequestEnvelope) ([]byte, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, req *RequestEnvelope) ([]byte, error)

func (f TransportFunc) Do(ctx context.Context, req *RequestEnvelope) ([]byte, error) {
	return f(ctx, req)
}

var sharedClient = &http.Client{
	Timeout: defaultTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 5 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// HTTPTransport posts envelopes with net/http. The zero value uses a shared
// client with a 10-second timeout.
type HTTPTransport struct {
	Client *http.Client
}

func NewHTTPTransport(client *http.Client) *HTTPTransport {
	return &HTTPTransport{Client: client}
}

func (t *HTTPTransport) Do(ctx context.Context, envelope *RequestEnvelope) ([]byte, error) {
	client := t.Client
	if client == nil {
		client = sharedClient
	}
	req, err := http.NewRequestWithContext(ctx, envelope.Method, envelope.URL, strings.NewReader(envelope.Body))
	if err != nil {
		return nil, fmt.Errorf("error calling http.NewRequest() | %w", err)
	}
	for k, v := range envelope.Header {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w | %w", ErrNoInternetConnection, err)
		}
		return nil, fmt.Errorf("unknown http.Client.Do() error | %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error calling io.ReadAll() | %w", err)
	}
	if res.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: res.StatusCode, Body: truncate(string(body), maxErrorBodyLength)}
		if res.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w | %w", ErrForbidden, statusErr)
		}
		return nil, statusErr
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
