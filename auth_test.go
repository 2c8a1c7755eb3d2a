package launchkey

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

var pendingBody = []byte(`{"message_code": 70403, "message": "pending response"}`)

func pollBody(t *testing.T, pkg authPackage, outer map[string]string) []byte {
	t.Helper()
	doc := map[string]string{"auth": sealAuth(t, pkg)}
	for k, v := range outer {
		doc[k] = v
	}
	return mustJSON(doc)
}

func TestAuthorize(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusOK, Body: []byte(`{"auth_request":"req-1"}`)}

	auth, err := env.client.Authorize(context.Background(), "someuser", false)
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}

	if auth.ID != "req-1" {
		t.Errorf("ID = %q, want %q", auth.ID, "req-1")
	}
	if auth.Username != "someuser" || auth.Session {
		t.Errorf("AuthRequest = %+v", auth)
	}

	req := env.transport.lastRequest(t)
	if req.Method != http.MethodPost || req.Path != "auths" {
		t.Errorf("request = %s %s, want POST auths", req.Method, req.Path)
	}
	if req.Form.Get("app_key") != "1000000000" {
		t.Errorf("app_key = %q", req.Form.Get("app_key"))
	}
	if req.Form.Get("username") != "someuser" {
		t.Errorf("username = %q", req.Form.Get("username"))
	}
	if req.Form.Get("session") != "0" {
		t.Errorf("session = %q, want %q", req.Form.Get("session"), "0")
	}

	// The sealed credentials ride along on every authenticated call.
	ciphertext, err := base64.StdEncoding.DecodeString(req.Form.Get("secret_key"))
	if err != nil {
		t.Fatalf("secret_key is not valid base64: %v", err)
	}
	if !strings.Contains(string(ciphertext), `"secret":"supersecretkey"`) {
		t.Error("secret_key does not seal the API secret")
	}
	if req.Form.Get("signature") == "" {
		t.Error("signature is missing")
	}
}

func TestAuthorizeSessionFlag(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusOK, Body: []byte(`{"auth_request":"req-1"}`)}

	if _, err := env.client.Authorize(context.Background(), "someuser", true); err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}

	req := env.transport.lastRequest(t)
	if req.Form.Get("session") != "1" {
		t.Errorf("session = %q, want %q", req.Form.Get("session"), "1")
	}
}

func TestAuthorizeMissingAuthRequest(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}

	_, err := env.client.Authorize(context.Background(), "someuser", false)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Authorize() error = %v, want ErrInvalidResponse", err)
	}
}

func TestAuthorizeAPIError(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"message_code": 40424, "message": "no paired devices"}`),
	}

	_, err := env.client.Authorize(context.Background(), "someuser", false)
	if !errors.Is(err, ErrNoPairedDevices) {
		t.Errorf("Authorize() error = %v, want ErrNoPairedDevices", err)
	}
}

func TestPoll(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusOK,
		Body: pollBody(t, authPackage{
			AuthRequest: "req-1",
			Response:    strptr("true"),
			DeviceID:    strptr("device-7"),
		}, map[string]string{
			"user_hash":         "userhash",
			"organization_user": "orguser",
			"user_push_id":      "pushid",
		}),
	}

	result, err := env.client.Poll(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	want := AuthResult{
		Completed:        true,
		AuthRequest:      "req-1",
		UserHash:         "userhash",
		OrganizationUser: "orguser",
		UserPushID:       "pushid",
		DeviceID:         "device-7",
		Authorized:       true,
	}
	if *result != want {
		t.Errorf("Poll() = %+v, want %+v", *result, want)
	}

	req := env.transport.lastRequest(t)
	if req.Method != http.MethodGet || req.Path != "poll" {
		t.Errorf("request = %s %s, want GET poll", req.Method, req.Path)
	}
	if req.Query.Get("auth_request") != "req-1" {
		t.Errorf("auth_request = %q", req.Query.Get("auth_request"))
	}
	if req.Query.Get("app_key") == "" || req.Query.Get("secret_key") == "" || req.Query.Get("signature") == "" {
		t.Error("credentials are missing from the poll query")
	}
	if req.Form != nil {
		t.Error("poll must not send a form body")
	}
}

func TestPollDenied(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusOK,
		Body: pollBody(t, authPackage{
			AuthRequest: "req-1",
			Response:    strptr("false"),
		}, map[string]string{"user_hash": "userhash"}),
	}

	result, err := env.client.Poll(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if !result.Completed || result.Authorized {
		t.Errorf("Poll() = %+v, want completed denial", *result)
	}
	if result.DeviceID != "" {
		t.Errorf("DeviceID = %q, want empty when the package omits it", result.DeviceID)
	}
}

func TestPollPending(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusBadRequest, Body: pendingBody}

	result, err := env.client.Poll(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Poll() error = %v, want pending translated to nil", err)
	}
	if result.Completed {
		t.Error("Completed = true, want false while pending")
	}
	if *result != (AuthResult{}) {
		t.Errorf("Poll() = %+v, want zero result", *result)
	}
}

func TestPollExpired(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"message_code": 70404, "message": "expired"}`),
	}

	_, err := env.client.Poll(context.Background(), "req-1")
	if !errors.Is(err, ErrExpiredAuthRequest) {
		t.Errorf("Poll() error = %v, want ErrExpiredAuthRequest", err)
	}
}

func TestPollMissingOuterUserHash(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusOK,
		Body: pollBody(t, authPackage{
			AuthRequest: "req-1",
			Response:    strptr("true"),
		}, nil),
	}

	_, err := env.client.Poll(context.Background(), "req-1")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Poll() error = %v, want ErrInvalidResponse", err)
	}
}

func TestPollRejectsEmbeddedUserHash(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusOK,
		Body: pollBody(t, authPackage{
			AuthRequest: "req-1",
			Response:    strptr("true"),
			UserHash:    strptr("userhash"),
		}, map[string]string{"user_hash": "userhash"}),
	}

	_, err := env.client.Poll(context.Background(), "req-1")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Poll() error = %v, want ErrInvalidResponse", err)
	}
}

func TestWaitForResponse(t *testing.T) {
	env := newTestEnv(t)

	completed := pollBody(t, authPackage{
		AuthRequest: "req-1",
		Response:    strptr("true"),
		DeviceID:    strptr("device-7"),
	}, map[string]string{"user_hash": "userhash"})

	polls := 0
	env.transport.handler = func(req Request) (*Response, error) {
		polls++
		if polls < 3 {
			return &Response{StatusCode: http.StatusBadRequest, Body: pendingBody}, nil
		}
		return &Response{StatusCode: http.StatusOK, Body: completed}, nil
	}

	result, err := env.client.WaitForResponse(context.Background(), "req-1",
		WithWaitTimeout(5*time.Second),
		WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("WaitForResponse() error = %v", err)
	}
	if !result.Completed || !result.Authorized {
		t.Errorf("WaitForResponse() = %+v, want completed approval", *result)
	}
	if polls < 3 {
		t.Errorf("polls = %d, want at least 3", polls)
	}
}

func TestWaitForResponseTimesOut(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusBadRequest, Body: pendingBody}

	_, err := env.client.WaitForResponse(context.Background(), "req-1",
		WithWaitTimeout(30*time.Millisecond),
		WithPollInterval(5*time.Millisecond),
	)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForResponse() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWaitForResponseStopsOnError(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"message_code": 40431, "message": "expired"}`),
	}

	_, err := env.client.WaitForResponse(context.Background(), "req-1",
		WithWaitTimeout(5*time.Second),
		WithPollInterval(time.Millisecond),
	)
	if !errors.Is(err, ErrExpiredAuthRequest) {
		t.Errorf("WaitForResponse() error = %v, want ErrExpiredAuthRequest", err)
	}
}

func TestWaitForResponseHonorsCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusBadRequest, Body: pendingBody}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.client.WaitForResponse(ctx, "req-1", WithPollInterval(time.Millisecond))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitForResponse() error = %v, want context.Canceled", err)
	}
}

func TestLog(t *testing.T) {
	tests := []struct {
		name       string
		action     LogAction
		status     bool
		wantAction string
		wantStatus string
	}{
		{"authenticate true", ActionAuthenticate, true, "Authenticate", "true"},
		{"authenticate false", ActionAuthenticate, false, "Authenticate", "false"},
		{"revoke", ActionRevoke, true, "Revoke", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.transport.resp = &Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}

			if err := env.client.Log(context.Background(), "req-1", tt.action, tt.status); err != nil {
				t.Fatalf("Log() error = %v", err)
			}

			req := env.transport.lastRequest(t)
			if req.Method != http.MethodPut || req.Path != "logs" {
				t.Errorf("request = %s %s, want PUT logs", req.Method, req.Path)
			}
			if req.Form.Get("auth_request") != "req-1" {
				t.Errorf("auth_request = %q", req.Form.Get("auth_request"))
			}
			if got := req.Form.Get("action"); got != tt.wantAction {
				t.Errorf("action = %q, want %q", got, tt.wantAction)
			}
			if got := req.Form.Get("status"); got != tt.wantStatus {
				t.Errorf("status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestDeorbit(t *testing.T) {
	env := newTestEnv(t)
	env.transport.resp = &Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}

	if err := env.client.Deorbit(context.Background(), "req-1"); err != nil {
		t.Fatalf("Deorbit() error = %v", err)
	}

	req := env.transport.lastRequest(t)
	if req.Form.Get("action") != "Revoke" || req.Form.Get("status") != "true" {
		t.Errorf("form = %v, want a Revoke/true log entry", req.Form)
	}
}

func TestIsPending(t *testing.T) {
	if !isPending(&APIError{Code: pendingAuthCode}) {
		t.Error("isPending(pending APIError) = false")
	}
	if isPending(&APIError{Code: 40431}) {
		t.Error("isPending(other APIError) = true")
	}
	if isPending(errors.New("pending")) {
		t.Error("isPending(plain error) = true")
	}
}
