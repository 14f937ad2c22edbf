package krakenspot

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RequestEnvelope is one fully built request. It is created per call and
// must not be sent twice: a private envelope's nonce is spent once used.
type RequestEnvelope struct {
	Endpoint string
	Private  bool
	Cost     uint8
	Method   string
	URL      string
	Path     string
	Header   map[string]string
	Body     string
	Nonce    uint64
}

// Response is the exchange's fixed envelope. A non-empty Error is a failure
// even when Result is set.
type Response struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// Decode unmarshals Result into 'target'.
func (r *Response) Decode(target any) error {
	if len(r.Result) == 0 {
		return fmt.Errorf("%w | empty result", ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Result, target); err != nil {
		return fmt.Errorf("error unmarshalling result | %w", err)
	}
	return nil
}

// BuildRequest validates 'opts' for 'endpoint' and assembles the envelope.
// Private endpoints draw a fresh nonce and are signed.
func (kc *KrakenClient) BuildRequest(endpoint string, opts Options) (*RequestEnvelope, error) {
	spec, ok := LookupEndpoint(endpoint)
	if !ok {
		return nil, fmt.Errorf("%w | %s", ErrUnknownEndpoint, endpoint)
	}
	return kc.buildRequest(spec, opts)
}

func (kc *KrakenClient) buildRequest(spec EndpointSpec, opts Options) (*RequestEnvelope, error) {
	payload, err := spec.Validate(opts)
	if err != nil {
		return nil, err
	}

	path := spec.Path()
	envelope := &RequestEnvelope{
		Endpoint: spec.Name,
		Private:  spec.Private,
		Cost:     spec.Cost,
		Method:   "POST",
		URL:      kc.baseURL + path,
		Path:     path,
		Header:   map[string]string{"Content-Type": contentTypeForm},
	}
	if !spec.Private {
		envelope.Body = payload.Encode()
		return envelope, nil
	}

	if kc.signer == nil {
		return nil, &SigningError{Err: ErrMissingCredentials}
	}
	envelope.Nonce = kc.nonces.Next()
	payload.Set("nonce", strconv.FormatUint(envelope.Nonce, 10))
	envelope.Body = payload.Encode()
	envelope.Header["API-Key"] = kc.APIKey
	envelope.Header["API-Sign"] = kc.signer.Sign(path, envelope.Nonce, envelope.Body)
	return envelope, nil
}

// parseEnvelope classifies a raw body: malformed JSON is a transport
// failure, a non-empty error list is an *ExchangeError.
func parseEnvelope(endpoint string, body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("%w | %w", ErrMalformedResponse, err),
		}
	}
	if len(resp.Error) != 0 {
		return nil, &ExchangeError{Endpoint: endpoint, Messages: resp.Error}
	}
	return &resp, nil
}
