package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configFileName = ".launchkey.yml"

// config holds the CLI settings. Values are resolved from the config
// file, then LAUNCHKEY_* environment variables, then flags; later sources
// win.
type config struct {
	BaseURL        string `yaml:"base_url"`
	AppKey         string `yaml:"app_key"`
	SecretKey      string `yaml:"secret_key"`
	PrivateKeyPath string `yaml:"private_key"`
}

// loadConfig resolves the CLI configuration for one command invocation.
func loadConfig(cmd *cobra.Command) (*config, error) {
	cfg := &config{}

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, configFileName)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case explicit:
			// A missing default file is fine; a missing named one is not.
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyFlags(cmd)

	if cfg.AppKey == "" {
		return nil, fmt.Errorf("app key is required (--app-key, LAUNCHKEY_APP_KEY, or app_key in %s)", configFileName)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required (--secret-key, LAUNCHKEY_SECRET_KEY, or secret_key in %s)", configFileName)
	}
	if cfg.PrivateKeyPath == "" {
		return nil, fmt.Errorf("private key path is required (--private-key, LAUNCHKEY_PRIVATE_KEY, or private_key in %s)", configFileName)
	}

	return cfg, nil
}

func (c *config) applyEnv() {
	if val := os.Getenv("LAUNCHKEY_BASE_URL"); val != "" {
		c.BaseURL = val
	}
	if val := os.Getenv("LAUNCHKEY_APP_KEY"); val != "" {
		c.AppKey = val
	}
	if val := os.Getenv("LAUNCHKEY_SECRET_KEY"); val != "" {
		c.SecretKey = val
	}
	if val := os.Getenv("LAUNCHKEY_PRIVATE_KEY"); val != "" {
		c.PrivateKeyPath = val
	}
}

func (c *config) applyFlags(cmd *cobra.Command) {
	if val, _ := cmd.Flags().GetString("base-url"); val != "" {
		c.BaseURL = val
	}
	if val, _ := cmd.Flags().GetString("app-key"); val != "" {
		c.AppKey = val
	}
	if val, _ := cmd.Flags().GetString("secret-key"); val != "" {
		c.SecretKey = val
	}
	if val, _ := cmd.Flags().GetString("private-key"); val != "" {
		c.PrivateKeyPath = val
	}
}

// privateKeyPEM reads the configured private key file.
func (c *config) privateKeyPEM() (string, error) {
	data, err := os.ReadFile(c.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	return string(data), nil
}
