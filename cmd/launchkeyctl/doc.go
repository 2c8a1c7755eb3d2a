// launchkeyctl drives the LaunchKey v1 API from the command line.
//
// It wraps the client SDK for quick manual testing of an application's
// keys and for running a callback receiver during development.
//
// # Quick Start
//
//	# Generate an application keypair
//	launchkeyctl keygen --out app_key.pem
//
//	# Check connectivity and credentials
//	launchkeyctl ping
//
//	# Push an authorization request and wait for the user's answer
//	launchkeyctl authorize someuser --wait
//
//	# Receive auth, de-orbit, and pairing callbacks locally
//	launchkeyctl serve --addr :9080
//
// # Configuration
//
// Credentials come from flags, the environment, or a YAML config file
// (default ~/.launchkey.yml), in that order of precedence:
//
//   - LAUNCHKEY_APP_KEY / app_key: application key
//   - LAUNCHKEY_SECRET_KEY / secret_key: API secret
//   - LAUNCHKEY_PRIVATE_KEY / private_key: path to the PEM RSA private key
//   - LAUNCHKEY_BASE_URL / base_url: API endpoint override
package main
