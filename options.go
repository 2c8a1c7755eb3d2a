package launchkey

import (
	"net/http"
	"time"
)

const (
	defaultPublicKeyTTL = 5 * time.Minute
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 2 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	transport  Transport
	crypto     CryptoGateway
	cache      KeyValueCache
	logger     Logger
	keyTTL     time.Duration
	now        func() time.Time
}

// waitConfig holds configuration for waiting on an auth response.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures WaitForResponse.
type WaitOption func(*waitConfig)

// WithBaseURL sets the API base URL.
// Default: the production v1 endpoint.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client for the default transport.
// Ignored when WithTransport is used.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTransport replaces the HTTP layer entirely.
func WithTransport(transport Transport) Option {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithCryptoGateway replaces the default RSA/AES implementation. When set,
// the private key argument to New may be empty.
func WithCryptoGateway(gateway CryptoGateway) Option {
	return func(c *clientConfig) {
		c.crypto = gateway
	}
}

// WithCache sets the cache holding the service public key. Defaults to a
// per-client in-memory cache; pass a shared or external cache to reuse
// the key across clients or processes.
func WithCache(cache KeyValueCache) Option {
	return func(c *clientConfig) {
		c.cache = cache
	}
}

// WithLogger sets the diagnostic logger.
// Default: discard everything.
func WithLogger(logger Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithPublicKeyTTL sets how long a fetched service public key is reused
// before the next request fetches a fresh one.
// Default: 5 minutes.
func WithPublicKeyTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.keyTTL = ttl
	}
}

// WithWaitTimeout sets how long WaitForResponse keeps polling before it
// gives up.
// Default: 60 seconds.
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the delay between polls in WaitForResponse.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}
