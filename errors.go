package launchkey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAppKey is returned when no app key is provided.
	ErrMissingAppKey = errors.New("app key is required")

	// ErrMissingSecretKey is returned when no secret key is provided.
	ErrMissingSecretKey = errors.New("secret key is required")

	// ErrMissingPrivateKey is returned when neither a private key nor a
	// custom crypto gateway is provided.
	ErrMissingPrivateKey = errors.New("private key is required")

	// ErrCommunication is returned when the service cannot be reached or
	// answers with a server-side failure.
	ErrCommunication = errors.New("communication with the service failed")

	// ErrInvalidCredentials is returned when the service rejects the app
	// key, secret key, or request signature.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRequest is returned when the service rejects the request
	// itself, and for inbound callbacks that fail verification.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidResponse is returned when a service response fails
	// decryption or validation.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrExpiredAuthRequest is returned when an auth request is polled or
	// logged after its lifetime.
	ErrExpiredAuthRequest = errors.New("auth request has expired")

	// ErrNoPairedDevices is returned when the user exists but has no
	// device paired.
	ErrNoPairedDevices = errors.New("no paired devices")

	// ErrNoSuchUser is returned when the username is unknown to the
	// service.
	ErrNoSuchUser = errors.New("no such user")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrEngine is returned when the service reports an internal engine
	// failure.
	ErrEngine = errors.New("service engine error")

	// ErrUnknownCallbackAction is returned when callback parameters match
	// no known shape.
	ErrUnknownCallbackAction = errors.New("unknown callback action")
)

// LaunchKeyError is implemented by all SDK errors.
type LaunchKeyError interface {
	error
	LaunchKeyError() // marker method
}

// errorKinds maps service message codes to error kinds. The table is
// fixed: codes the service adds later classify as ErrInvalidRequest until
// they are added here.
var errorKinds = map[int]error{
	40422: ErrInvalidCredentials,
	40423: ErrInvalidCredentials,
	40425: ErrInvalidCredentials,
	40428: ErrInvalidCredentials,
	40429: ErrInvalidCredentials,
	40432: ErrInvalidCredentials,
	40433: ErrInvalidCredentials,
	40434: ErrInvalidCredentials,
	40435: ErrInvalidCredentials,
	40437: ErrInvalidCredentials,
	50442: ErrInvalidCredentials,
	50443: ErrInvalidCredentials,
	50444: ErrInvalidCredentials,
	50445: ErrInvalidCredentials,
	50447: ErrInvalidCredentials,
	50448: ErrInvalidCredentials,
	50449: ErrInvalidCredentials,
	50452: ErrInvalidCredentials,
	50453: ErrInvalidCredentials,
	50454: ErrInvalidCredentials,
	50457: ErrInvalidCredentials,

	40424: ErrNoPairedDevices,
	40426: ErrNoSuchUser,

	40431: ErrExpiredAuthRequest,
	50451: ErrExpiredAuthRequest,
	70404: ErrExpiredAuthRequest,

	40436: ErrRateLimited,
	50455: ErrEngine,
}

// kindForCode resolves a service message code to its sentinel kind.
func kindForCode(code int) error {
	if kind, ok := errorKinds[code]; ok {
		return kind
	}
	return ErrInvalidRequest
}

// APIError represents a structured error document returned by the service.
type APIError struct {
	Code    int    // service message_code; zero when the document had none
	Message string
	Status  int   // HTTP status the document arrived with
	Err     error // parse failure for documents that were not valid JSON
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching via the code table.
func (e *APIError) Is(target error) bool {
	return target == kindForCode(e.Code)
}

// LaunchKeyError implements the LaunchKeyError interface.
func (e *APIError) LaunchKeyError() {}

// CommunicationError represents a network-level failure or a server-side
// (5xx) response.
type CommunicationError struct {
	Status int // zero for failures that never produced a response
	Err    error
}

func (e *CommunicationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("communication error: service returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("communication error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *CommunicationError) Is(target error) bool {
	return target == ErrCommunication
}

// LaunchKeyError implements the LaunchKeyError interface.
func (e *CommunicationError) LaunchKeyError() {}

// ResponseError indicates a service response that failed decryption or
// validation and must not be trusted.
type ResponseError struct {
	Message string
	Err     error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("invalid response: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

// LaunchKeyError implements the LaunchKeyError interface.
func (e *ResponseError) LaunchKeyError() {}

// RequestError indicates an inbound callback request that failed
// signature verification or was structurally invalid.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// LaunchKeyError implements the LaunchKeyError interface.
func (e *RequestError) LaunchKeyError() {}

// parseAPIError classifies a 4xx error document. Documents arrive as
// {"message_code": ..., "message": ...}; both fields tolerate the loose
// typing the service exhibits (numeric or string codes, structured
// messages). A document that is not JSON at all downgrades to a generic
// invalid-request error that keeps the HTTP status, a body excerpt, and
// the parse failure as context.
func parseAPIError(status int, body []byte) error {
	var doc struct {
		MessageCode json.RawMessage `json:"message_code"`
		Message     json.RawMessage `json:"message"`
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return &APIError{
			Status:  status,
			Message: fmt.Sprintf("HTTP %d: %s", status, excerpt(body)),
			Err:     err,
		}
	}

	return &APIError{
		Status:  status,
		Code:    decodeMessageCode(doc.MessageCode),
		Message: decodeMessage(doc.Message),
	}
}

// decodeMessageCode accepts the service code as a JSON number or string.
// Anything else decodes to zero, which classifies as ErrInvalidRequest.
func decodeMessageCode(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}

	return 0
}

// decodeMessage renders the message field as text. The service nests
// field-validation maps here, so structured values are re-serialized
// rather than dropped.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "unknown API error"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, raw); err == nil {
		return compacted.String()
	}
	return string(raw)
}

// excerpt trims a response body for inclusion in error messages.
func excerpt(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
