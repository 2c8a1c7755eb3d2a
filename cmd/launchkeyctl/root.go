package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	launchkey "github.com/WPPlugins/launchkey"
)

var rootCmd = &cobra.Command{
	Use:   "launchkeyctl",
	Short: "LaunchKey API command line client",
	Long: `launchkeyctl drives the LaunchKey v1 API: push authorization requests,
poll for user responses, manage white label users, and run a local
callback receiver.

Credentials are read from flags, LAUNCHKEY_* environment variables, or a
YAML config file, in that order of precedence.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.launchkey.yml)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")
	rootCmd.PersistentFlags().String("app-key", "", "application key")
	rootCmd.PersistentFlags().String("secret-key", "", "API secret key")
	rootCmd.PersistentFlags().String("private-key", "", "path to the application RSA private key (PEM)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

// newLogger builds the CLI's diagnostic logger. Debug events are shown
// only with --verbose.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newClient assembles an SDK client from the resolved configuration.
func newClient(cmd *cobra.Command) (*launchkey.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	privateKey, err := cfg.privateKeyPEM()
	if err != nil {
		return nil, err
	}

	opts := []launchkey.Option{
		launchkey.WithLogger(launchkey.NewZerologLogger(newLogger(cmd))),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, launchkey.WithBaseURL(cfg.BaseURL))
	}

	return launchkey.New(cfg.AppKey, cfg.SecretKey, privateKey, opts...)
}
