//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	launchkey "github.com/WPPlugins/launchkey"
)

var (
	appKey     string
	secretKey  string
	privateKey string
	baseURL    string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	appKey = os.Getenv("LAUNCHKEY_APP_KEY")
	secretKey = os.Getenv("LAUNCHKEY_SECRET_KEY")
	keyPath := os.Getenv("LAUNCHKEY_PRIVATE_KEY")
	baseURL = os.Getenv("LAUNCHKEY_BASE_URL")

	if appKey == "" || secretKey == "" || keyPath == "" {
		os.Stderr.WriteString("Skipping integration tests: LAUNCHKEY_APP_KEY, LAUNCHKEY_SECRET_KEY or LAUNCHKEY_PRIVATE_KEY not set\n")
		os.Exit(0)
	}

	pem, err := os.ReadFile(keyPath)
	if err != nil {
		os.Stderr.WriteString("Skipping integration tests: cannot read LAUNCHKEY_PRIVATE_KEY: " + err.Error() + "\n")
		os.Exit(0)
	}
	privateKey = string(pem)

	os.Stderr.WriteString("Running integration tests...\n")
	os.Exit(m.Run())
}

func newClient(t *testing.T) *launchkey.Client {
	t.Helper()

	var opts []launchkey.Option
	if baseURL != "" {
		opts = append(opts, launchkey.WithBaseURL(baseURL))
	}

	client, err := launchkey.New(appKey, secretKey, privateKey, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestIntegration_Ping(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Ping(ctx)
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	if !strings.Contains(resp.Key, "BEGIN PUBLIC KEY") {
		t.Errorf("Key = %q, want a PEM public key", resp.Key)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", resp.LaunchKeyTime); err != nil {
		t.Errorf("LaunchKeyTime = %q is not a service timestamp: %v", resp.LaunchKeyTime, err)
	}
}

func TestIntegration_Nonce(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, err := client.Nonce(ctx)
	if err != nil {
		t.Fatalf("Nonce() error = %v", err)
	}
	if first == "" {
		t.Fatal("Nonce() returned an empty nonce")
	}

	second, err := client.Nonce(ctx)
	if err != nil {
		t.Fatalf("Nonce() error = %v", err)
	}
	if first == second {
		t.Error("consecutive nonces are identical")
	}
}

func TestIntegration_PublicKeyIsCached(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, err := client.ServicePublicKey(ctx)
	if err != nil {
		t.Fatalf("ServicePublicKey() error = %v", err)
	}
	second, err := client.ServicePublicKey(ctx)
	if err != nil {
		t.Fatalf("ServicePublicKey() error = %v", err)
	}
	if first != second {
		t.Error("cached key changed between back-to-back calls")
	}
}

func TestIntegration_AuthorizeUnknownUser(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A random username cannot have paired devices.
	_, err := client.Authorize(ctx, uuid.NewString(), true)
	if err == nil {
		t.Fatal("Authorize() with an unknown user succeeded")
	}
	if !errors.Is(err, launchkey.ErrNoSuchUser) && !errors.Is(err, launchkey.ErrNoPairedDevices) {
		t.Errorf("Authorize() error = %v, want no-such-user or no-paired-devices", err)
	}
}

func TestIntegration_AuthorizeAndWait(t *testing.T) {
	if os.Getenv("MANUAL_TEST") == "" {
		t.Skip("skipping manual test: set MANUAL_TEST=1 to run")
	}
	username := os.Getenv("LAUNCHKEY_USERNAME")
	if username == "" {
		t.Skip("skipping: LAUNCHKEY_USERNAME not set")
	}

	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	auth, err := client.Authorize(ctx, username, true)
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	t.Logf("auth request %s sent, approve it on a paired device", auth.ID)

	result, err := client.WaitForResponse(ctx, auth.ID,
		launchkey.WithWaitTimeout(2*time.Minute),
	)
	if err != nil {
		t.Fatalf("WaitForResponse() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("WaitForResponse() returned an incomplete result")
	}
	t.Logf("user %s responded: authorized=%t device=%s", result.UserHash, result.Authorized, result.DeviceID)

	if err := client.Log(ctx, auth.ID, launchkey.ActionAuthenticate, result.Authorized); err != nil {
		t.Errorf("Log() error = %v", err)
	}

	if result.Authorized {
		if err := client.Deorbit(ctx, auth.ID); err != nil {
			t.Errorf("Deorbit() error = %v", err)
		}
	}
}

func TestIntegration_CreateWhiteLabelUser(t *testing.T) {
	if os.Getenv("LAUNCHKEY_WHITELABEL") == "" {
		t.Skip("skipping: LAUNCHKEY_WHITELABEL not set (requires a white label application)")
	}

	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := client.CreateWhiteLabelUser(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("CreateWhiteLabelUser() error = %v", err)
	}
	if user.QRCode == "" || user.Code == "" {
		t.Errorf("CreateWhiteLabelUser() = %+v, want pairing material", user)
	}
}
