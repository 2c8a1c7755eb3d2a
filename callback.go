package launchkey

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// HandshakeResponder answers a pairing handshake with the service public
// key. The SDK never writes the HTTP response itself; the responder owns
// emitting the plain-text 200 carrying the key.
type HandshakeResponder func(publicKey string) error

// Callback is the routed result of one callback request. The concrete
// type is *AuthCallback, *DeOrbitCallback, or *HandshakeCallback.
type Callback interface {
	isCallback()
}

// AuthCallback reports a user's response to an authorization request,
// delivered by the service instead of being polled for.
type AuthCallback struct {
	Result AuthResult
}

func (*AuthCallback) isCallback() {}

// DeOrbitNotice is a device-initiated session revocation relayed by the
// service. The application must terminate the user's session.
type DeOrbitNotice struct {
	DeorbitedAt time.Time
	UserHash    string
}

// DeOrbitCallback carries a de-orbit notice.
type DeOrbitCallback struct {
	Notice DeOrbitNotice
}

func (*DeOrbitCallback) isCallback() {}

// HandshakeCallback reports that a pairing handshake was answered with
// the service public key.
type HandshakeCallback struct {
	PublicKey string
}

func (*HandshakeCallback) isCallback() {}

// handshakeTokenPattern matches the three-segment dot-delimited bearer
// token the service sends when it verifies a callback URL.
var handshakeTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_=-]+\.[A-Za-z0-9_=-]+\.[A-Za-z0-9_=-]+$`)

// HandleCallback routes one inbound callback request by the shape of its
// parameters: an auth response (auth, auth_request, user_hash), a
// de-orbit notice (deorbit, signature), or a pairing handshake (a bearer
// token among the values). params holds the flattened query and form
// values of the request; responder may be nil when handshakes are not
// expected.
//
// The shapes are checked in that order. Auth fields win over everything:
// a malformed auth payload must surface as a payload error, never be
// mistaken for a handshake token. Parameters matching no shape return
// ErrUnknownCallbackAction.
func (c *Client) HandleCallback(ctx context.Context, params map[string]string, responder HandshakeResponder) (Callback, error) {
	switch {
	case hasKeys(params, "auth", "auth_request", "user_hash"):
		return c.handleAuthCallback(params)
	case hasKeys(params, "deorbit", "signature"):
		return c.handleDeOrbitCallback(ctx, params)
	}

	if _, ok := findHandshakeToken(params); ok {
		return c.handleHandshake(ctx, responder)
	}

	return nil, fmt.Errorf("%w: unrecognized parameter shape", ErrUnknownCallbackAction)
}

func (c *Client) handleAuthCallback(params map[string]string) (Callback, error) {
	pkg, err := c.env.openCallbackAuth(params["auth"], params["auth_request"])
	if err != nil {
		return nil, err
	}

	c.logger.Debugf("auth callback received for request %s", params["auth_request"])
	return &AuthCallback{Result: AuthResult{
		Completed:        true,
		AuthRequest:      params["auth_request"],
		UserHash:         params["user_hash"],
		OrganizationUser: params["organization_user"],
		UserPushID:       params["user_push_id"],
		DeviceID:         *pkg.DeviceID,
		Authorized:       pkg.authorized(),
	}}, nil
}

func (c *Client) handleDeOrbitCallback(ctx context.Context, params map[string]string) (Callback, error) {
	key, err := c.keys.publicKey(ctx)
	if err != nil {
		return nil, err
	}

	signature, err := base64.StdEncoding.DecodeString(params["signature"])
	if err != nil {
		return nil, &RequestError{Message: "invalid signature", Err: err}
	}

	// The payload stays unparsed until the signature proves it came from
	// the service.
	deorbit := params["deorbit"]
	if err := c.crypto.VerifySignature(signature, []byte(deorbit), key); err != nil {
		return nil, &RequestError{Message: "invalid signature", Err: err}
	}

	var doc struct {
		LaunchKeyTime string `json:"launchkey_time"`
		UserHash      string `json:"user_hash"`
	}
	if err := json.Unmarshal([]byte(deorbit), &doc); err != nil {
		return nil, &RequestError{Message: "invalid package", Err: err}
	}
	if doc.LaunchKeyTime == "" || doc.UserHash == "" {
		return nil, &RequestError{Message: "invalid package"}
	}

	deorbitedAt, err := time.ParseInLocation(serviceTimeLayout, doc.LaunchKeyTime, time.UTC)
	if err != nil {
		return nil, &RequestError{Message: "invalid package", Err: err}
	}

	c.logger.Debugf("deorbit callback received for user %s", doc.UserHash)
	return &DeOrbitCallback{Notice: DeOrbitNotice{
		DeorbitedAt: deorbitedAt,
		UserHash:    doc.UserHash,
	}}, nil
}

func (c *Client) handleHandshake(ctx context.Context, responder HandshakeResponder) (Callback, error) {
	if responder == nil {
		return nil, &RequestError{Message: "no handshake responder configured"}
	}

	key, err := c.keys.publicKey(ctx)
	if err != nil {
		return nil, err
	}

	if err := responder(key); err != nil {
		return nil, fmt.Errorf("handshake responder: %w", err)
	}

	c.logger.Debugf("pairing handshake answered")
	return &HandshakeCallback{PublicKey: key}, nil
}

// hasKeys reports whether every named key is present in params.
func hasKeys(params map[string]string, keys ...string) bool {
	for _, key := range keys {
		if _, ok := params[key]; !ok {
			return false
		}
	}
	return true
}

// findHandshakeToken looks for a bearer token among the parameters. The
// token usually arrives as a value; a raw request body flattened into the
// bag shows up as a bare key with an empty value, so both are checked.
func findHandshakeToken(params map[string]string) (string, bool) {
	for key, value := range params {
		if handshakeTokenPattern.MatchString(value) {
			return value, true
		}
		if value == "" && handshakeTokenPattern.MatchString(key) {
			return key, true
		}
	}
	return "", false
}
