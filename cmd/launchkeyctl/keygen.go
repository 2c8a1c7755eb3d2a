package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WPPlugins/launchkey/internal/crypto"
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an application RSA keypair",
	Long: `Generate an RSA keypair for a LaunchKey application.

The private key is written to --out (or stdout) and the public key, which
is what gets registered with the service, to --pub (or stdout after the
private key).

Example:
  launchkeyctl keygen --out app_key.pem --pub app_key.pub`,
	Run: func(cmd *cobra.Command, args []string) {
		bits, _ := cmd.Flags().GetInt("bits")
		outPath, _ := cmd.Flags().GetString("out")
		pubPath, _ := cmd.Flags().GetString("pub")

		key, err := crypto.GenerateKey(bits)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Key generation failed: %v\n", err)
			os.Exit(1)
		}

		privatePEM := crypto.EncodePrivateKey(key)
		publicPEM, err := crypto.EncodePublicKey(&key.PublicKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Key encoding failed: %v\n", err)
			os.Exit(1)
		}

		if err := writeKey(outPath, privatePEM, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write private key: %v\n", err)
			os.Exit(1)
		}
		if err := writeKey(pubPath, publicPEM, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write public key: %v\n", err)
			os.Exit(1)
		}
	},
}

// writeKey writes PEM material to path, or stdout when path is empty.
func writeKey(path, pem string, mode os.FileMode) error {
	if path == "" {
		fmt.Print(pem)
		return nil
	}
	return os.WriteFile(path, []byte(pem), mode)
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().Int("bits", 2048, "RSA key size")
	keygenCmd.Flags().String("out", "", "private key output path (default stdout)")
	keygenCmd.Flags().String("pub", "", "public key output path (default stdout)")
}
