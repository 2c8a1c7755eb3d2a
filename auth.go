package launchkey

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// LogAction identifies what a log entry records about an auth request.
type LogAction string

const (
	// ActionAuthenticate records the outcome of a login attempt.
	ActionAuthenticate LogAction = "Authenticate"

	// ActionRevoke records the end of an authorized session.
	ActionRevoke LogAction = "Revoke"
)

// pendingAuthCode is the service code meaning the user has not responded
// to the auth request yet. It is a pseudo-error on the wire, not a
// failure.
const pendingAuthCode = 70403

// AuthRequest identifies one authorization pushed to a user's devices.
type AuthRequest struct {
	Username string
	Session  bool
	ID       string
}

// AuthResult is the outcome of an authorization request. The zero value,
// with Completed false, means the user has not responded yet; it is a
// valid state, not an error.
type AuthResult struct {
	Completed        bool
	AuthRequest      string
	UserHash         string
	OrganizationUser string
	UserPushID       string
	DeviceID         string
	Authorized       bool
}

// Authorize asks the service to push an authorization request to the
// user's paired devices. session marks the request as a login that stays
// open until revoked, rather than a one-off transaction approval.
func (c *Client) Authorize(ctx context.Context, username string, session bool) (*AuthRequest, error) {
	params, err := c.credentialParams(ctx)
	if err != nil {
		return nil, err
	}
	params.Set("username", username)
	params.Set("session", boolFlag(session))

	body, err := c.send(ctx, Request{Method: http.MethodPost, Path: "auths", Form: params})
	if err != nil {
		return nil, err
	}

	var resp struct {
		AuthRequest string `json:"auth_request"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseError{Message: "auths response is not valid JSON", Err: err}
	}
	if resp.AuthRequest == "" {
		return nil, &ResponseError{Message: "auths response is missing auth_request"}
	}

	c.logger.Debugf("authorization started for %s", username)
	return &AuthRequest{Username: username, Session: session, ID: resp.AuthRequest}, nil
}

// Poll asks whether the user has responded to an auth request. While the
// request is unanswered the service reports a pending pseudo-error, which
// Poll translates into an empty AuthResult and a nil error; use
// WaitForResponse to block until the user acts.
func (c *Client) Poll(ctx context.Context, authRequest string) (*AuthResult, error) {
	params, err := c.credentialParams(ctx)
	if err != nil {
		return nil, err
	}
	params.Set("auth_request", authRequest)

	body, err := c.send(ctx, Request{Method: http.MethodGet, Path: "poll", Query: params})
	if err != nil {
		if isPending(err) {
			return &AuthResult{}, nil
		}
		return nil, err
	}

	var resp struct {
		Auth             string `json:"auth"`
		UserHash         string `json:"user_hash"`
		OrganizationUser string `json:"organization_user"`
		UserPushID       string `json:"user_push_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseError{Message: "poll response is not valid JSON", Err: err}
	}

	pkg, err := c.env.openPollAuth(resp.Auth, authRequest, resp.UserHash)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		Completed:        true,
		AuthRequest:      authRequest,
		UserHash:         resp.UserHash,
		OrganizationUser: resp.OrganizationUser,
		UserPushID:       resp.UserPushID,
		Authorized:       pkg.authorized(),
	}
	if pkg.DeviceID != nil {
		result.DeviceID = *pkg.DeviceID
	}
	return result, nil
}

// WaitForResponse polls until the user responds to the auth request, the
// wait timeout lapses, or ctx is cancelled.
func (c *Client) WaitForResponse(ctx context.Context, authRequest string, opts ...WaitOption) (*AuthResult, error) {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	for {
		result, err := c.Poll(ctx, authRequest)
		if err != nil {
			return nil, err
		}
		if result.Completed {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Log records the outcome of an auth request: ActionAuthenticate with the
// login verdict after polling, ActionRevoke when a session ends.
func (c *Client) Log(ctx context.Context, authRequest string, action LogAction, status bool) error {
	params, err := c.credentialParams(ctx)
	if err != nil {
		return err
	}
	params.Set("auth_request", authRequest)
	params.Set("action", string(action))
	params.Set("status", strconv.FormatBool(status))

	_, err = c.send(ctx, Request{Method: http.MethodPut, Path: "logs", Form: params})
	return err
}

// Deorbit ends an authorized session from the application side, the
// counterpart of the device-initiated de-orbit callback.
func (c *Client) Deorbit(ctx context.Context, authRequest string) error {
	return c.Log(ctx, authRequest, ActionRevoke, true)
}

// isPending reports whether err is the poll-pending pseudo-error rather
// than a real failure.
func isPending(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == pendingAuthCode
}

// boolFlag renders a boolean the way the service expects flag parameters.
func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
