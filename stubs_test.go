package launchkey

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"
)

// testPublicKey stands in for the service PEM key in tests that use the
// stub gateway; the stub never parses it.
const testPublicKey = "-----BEGIN PUBLIC KEY-----\nstub\n-----END PUBLIC KEY-----"

// stubGateway is a reversible fake: "encryption" prefixes the plaintext,
// "signing" prefixes the data. Tests assert on byte plumbing, not math.
type stubGateway struct {
	encryptErr error
	decryptErr error
	aesErr     error
	signErr    error
	verifyErr  error

	verifiedData [][]byte
	aesKey       []byte
	aesIV        []byte
}

func (g *stubGateway) RSAEncrypt(plaintext []byte, publicKey string) ([]byte, error) {
	if g.encryptErr != nil {
		return nil, g.encryptErr
	}
	return append([]byte("enc:"), plaintext...), nil
}

func (g *stubGateway) RSADecrypt(ciphertext []byte) ([]byte, error) {
	if g.decryptErr != nil {
		return nil, g.decryptErr
	}
	return bytes.TrimPrefix(ciphertext, []byte("enc:")), nil
}

func (g *stubGateway) AESDecrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if g.aesErr != nil {
		return nil, g.aesErr
	}
	g.aesKey = append([]byte(nil), key...)
	g.aesIV = append([]byte(nil), iv...)
	return ciphertext, nil
}

func (g *stubGateway) Sign(data []byte) ([]byte, error) {
	if g.signErr != nil {
		return nil, g.signErr
	}
	return append([]byte("sig:"), data...), nil
}

func (g *stubGateway) VerifySignature(signature, data []byte, publicKey string) error {
	g.verifiedData = append(g.verifiedData, append([]byte(nil), data...))
	return g.verifyErr
}

// stubTransport replays a canned response or delegates to a handler.
type stubTransport struct {
	resp    *Response
	err     error
	handler func(req Request) (*Response, error)

	requests []Request
}

func (t *stubTransport) Send(_ context.Context, req Request) (*Response, error) {
	t.requests = append(t.requests, req)
	if t.handler != nil {
		return t.handler(req)
	}
	if t.err != nil {
		return nil, t.err
	}
	return t.resp, nil
}

func (t *stubTransport) lastRequest(tb testing.TB) Request {
	tb.Helper()
	if len(t.requests) == 0 {
		tb.Fatal("no request was sent")
	}
	return t.requests[len(t.requests)-1]
}

// fakeCache is a map-backed KeyValueCache with fault injection.
type fakeCache struct {
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *fakeCache) Set(key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.lastTTL = ttl
	c.values[key] = value
	return nil
}

// recordLogger captures log lines for assertions.
type recordLogger struct {
	debugs []string
	errs   []string
}

func (l *recordLogger) Debugf(format string, args ...any) {
	l.debugs = append(l.debugs, fmt.Sprintf(format, args...))
}

func (l *recordLogger) Errorf(format string, args ...any) {
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

// testEnv wires a client out of stubs, with the service public key
// pre-cached so operations skip the ping fetch.
type testEnv struct {
	client    *Client
	gateway   *stubGateway
	transport *stubTransport
	cache     *fakeCache
	logger    *recordLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:   &stubGateway{},
		transport: &stubTransport{},
		cache:     newFakeCache(),
		logger:    &recordLogger{},
	}
	env.cache.values[publicKeyCacheKey] = testPublicKey

	client, err := New("1000000000", "supersecretkey", "",
		WithCryptoGateway(env.gateway),
		WithTransport(env.transport),
		WithCache(env.cache),
		WithLogger(env.logger),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	env.client = client
	return env
}
