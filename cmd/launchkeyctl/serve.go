package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	launchkey "github.com/WPPlugins/launchkey"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local callback receiver",
	Long: `Run an HTTP server that receives LaunchKey callbacks: auth responses,
session de-orbits, and white label pairing handshakes.

The application private key file is watched for changes; rotating the key
on disk re-keys the running server without a restart.

Example:
  launchkeyctl serve --addr :9080 --path /launchkey/callback`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		path, _ := cmd.Flags().GetString("path")

		if err := runServer(cmd, addr, path); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":9080", "listen address")
	serveCmd.Flags().String("path", "/launchkey/callback", "callback path")
}

func runServer(cmd *cobra.Command, addr, path string) error {
	log := newLogger(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	server := &callbackServer{log: log}
	server.build = func() (*launchkey.Client, error) {
		privateKey, err := cfg.privateKeyPEM()
		if err != nil {
			return nil, err
		}
		opts := []launchkey.Option{
			launchkey.WithLogger(launchkey.NewZerologLogger(log)),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, launchkey.WithBaseURL(cfg.BaseURL))
		}
		return launchkey.New(cfg.AppKey, cfg.SecretKey, privateKey, opts...)
	}

	client, err := server.build()
	if err != nil {
		return err
	}
	server.client = client

	closeWatcher, err := server.watchKey(cfg.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("watch private key: %w", err)
	}
	defer closeWatcher()

	router := mux.NewRouter()
	router.HandleFunc(path, server.handleCallback).Methods(http.MethodGet, http.MethodPost)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", addr).Str("path", path).Msg("callback receiver listening")

	ctx, cancel := signalContext()
	defer cancel()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// callbackServer routes incoming callbacks through a client that can be
// swapped when the private key rotates on disk.
type callbackServer struct {
	mu     sync.RWMutex
	client *launchkey.Client
	build  func() (*launchkey.Client, error)
	log    zerolog.Logger
}

func (s *callbackServer) current() *launchkey.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *callbackServer) reload() {
	client, err := s.build()
	if err != nil {
		s.log.Error().Err(err).Msg("private key reload failed, keeping previous key")
		return
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	s.log.Info().Msg("private key reloaded")
}

// watchKey re-keys the server when the private key file changes. The
// returned func stops the watcher.
func (s *callbackServer) watchKey(path string) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write | fsnotify.Create) {
					s.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Error().Err(err).Msg("key watcher error")
			}
		}
	}()

	return watcher.Close, nil
}

func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	params := flattenParams(r)

	// Pairing handshakes answer inside the request cycle: the responder
	// writes the service public key as the plain-text response body.
	responder := func(publicKey string) error {
		w.Header().Set("Content-Type", "text/plain")
		_, err := io.WriteString(w, publicKey)
		return err
	}

	cb, err := s.current().HandleCallback(r.Context(), params, responder)
	if err != nil {
		s.log.Error().Err(err).Msg("callback rejected")
		switch {
		case errors.Is(err, launchkey.ErrUnknownCallbackAction),
			errors.Is(err, launchkey.ErrInvalidRequest),
			errors.Is(err, launchkey.ErrInvalidResponse):
			http.Error(w, "invalid callback", http.StatusBadRequest)
		default:
			http.Error(w, "callback processing failed", http.StatusBadGateway)
		}
		return
	}

	switch cb := cb.(type) {
	case *launchkey.AuthCallback:
		s.log.Info().
			Str("auth_request", cb.Result.AuthRequest).
			Str("user_hash", cb.Result.UserHash).
			Str("device", cb.Result.DeviceID).
			Bool("authorized", cb.Result.Authorized).
			Msg("auth response received")
		fmt.Fprintln(w, "OK")
	case *launchkey.DeOrbitCallback:
		s.log.Info().
			Str("user_hash", cb.Notice.UserHash).
			Time("deorbited_at", cb.Notice.DeorbitedAt).
			Msg("de-orbit received")
		fmt.Fprintln(w, "OK")
	case *launchkey.HandshakeCallback:
		// The responder already wrote the body.
		s.log.Info().Msg("pairing handshake answered")
	}
}

// flattenParams normalizes a callback request into the flat parameter bag
// the SDK routes on. ParseForm merges query and form-body parameters; a
// raw body token arrives as a bare key with an empty value.
func flattenParams(r *http.Request) map[string]string {
	_ = r.ParseForm()

	params := make(map[string]string, len(r.Form))
	for key, values := range r.Form {
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		params[key] = value
	}
	return params
}
