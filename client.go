package launchkey

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/WPPlugins/launchkey/internal/crypto"
)

// Client talks to the LaunchKey API on behalf of one application. It is
// safe for concurrent use; every network operation takes a
// context.Context and respects its cancellation.
type Client struct {
	appKey    string
	transport Transport
	crypto    CryptoGateway
	logger    Logger
	keys      *keyCache
	env       *envelope
}

// New creates a client for the application identified by appKey.
// privateKey is the application's PEM RSA private key as registered with
// the service; it may be empty when WithCryptoGateway supplies a custom
// implementation.
func New(appKey, secretKey, privateKey string, opts ...Option) (*Client, error) {
	if appKey == "" {
		return nil, ErrMissingAppKey
	}
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	cfg := &clientConfig{
		keyTTL: defaultPublicKeyTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gateway := cfg.crypto
	if gateway == nil {
		if privateKey == "" {
			return nil, ErrMissingPrivateKey
		}
		gw, err := crypto.NewGateway(privateKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		gateway = gw
	}

	transport := cfg.transport
	if transport == nil {
		transport = newHTTPTransport(cfg.baseURL, cfg.httpClient)
	}

	cache := cfg.cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	logger := cfg.logger
	if logger == nil {
		logger = nopLogger{}
	}

	c := &Client{
		appKey:    appKey,
		transport: transport,
		crypto:    gateway,
		logger:    logger,
		env: &envelope{
			secretKey: secretKey,
			crypto:    gateway,
			now:       cfg.now,
		},
	}
	c.keys = &keyCache{
		cache:  cache,
		ttl:    cfg.keyTTL,
		logger: logger,
		fetch:  c.fetchPublicKey,
	}

	return c, nil
}

// PingResponse reports service liveness: its date stamp, its clock, and
// its current RSA public key.
type PingResponse struct {
	DateStamp     string `json:"date_stamp"`
	LaunchKeyTime string `json:"launchkey_time"`
	Key           string `json:"key"`
}

// Ping checks service availability and returns the service clock and
// public key. The key returned here is what the client's key cache
// stores for envelope encryption.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	body, err := c.send(ctx, Request{Method: http.MethodGet, Path: "ping"})
	if err != nil {
		return nil, err
	}

	var resp PingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseError{Message: "ping response is not valid JSON", Err: err}
	}
	return &resp, nil
}

// Nonce fetches a single-use nonce from the service.
func (c *Client) Nonce(ctx context.Context) (string, error) {
	body, err := c.send(ctx, Request{Method: http.MethodGet, Path: "nonce"})
	if err != nil {
		return "", err
	}

	var resp struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ResponseError{Message: "nonce response is not valid JSON", Err: err}
	}
	if resp.Nonce == "" {
		return "", &ResponseError{Message: "nonce response is missing nonce"}
	}
	return resp.Nonce, nil
}

// ServicePublicKey returns the service's current RSA public key in PEM
// form, from cache when fresh. Callback servers use it to answer pairing
// handshakes.
func (c *Client) ServicePublicKey(ctx context.Context) (string, error) {
	return c.keys.publicKey(ctx)
}

// fetchPublicKey is the key cache's miss path.
func (c *Client) fetchPublicKey(ctx context.Context) (string, error) {
	resp, err := c.Ping(ctx)
	if err != nil {
		return "", err
	}
	if resp.Key == "" {
		return "", &ResponseError{Message: "ping response is missing key"}
	}
	return resp.Key, nil
}

// credentialParams assembles the authenticated parameter set every
// operation sends: the app key, the sealed secret, and its signature.
func (c *Client) credentialParams(ctx context.Context) (url.Values, error) {
	key, err := c.keys.publicKey(ctx)
	if err != nil {
		return nil, err
	}

	secretKey, signature, err := c.env.credentials(key)
	if err != nil {
		return nil, err
	}

	return url.Values{
		"app_key":    {c.appKey},
		"secret_key": {secretKey},
		"signature":  {signature},
	}, nil
}

// send issues one request and maps the response status to the SDK error
// taxonomy: 2xx passes the body through, 4xx is classified from the
// structured error document, everything else is a communication fault.
func (c *Client) send(ctx context.Context, req Request) ([]byte, error) {
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, &CommunicationError{Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, parseAPIError(resp.StatusCode, resp.Body)
	default:
		return nil, &CommunicationError{Status: resp.StatusCode}
	}
}
