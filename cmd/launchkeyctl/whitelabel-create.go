package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// whitelabelCreateCmd represents the whitelabel create command
var whitelabelCreateCmd = &cobra.Command{
	Use:   "create [identifier]",
	Short: "Create a white label user and print its pairing material",
	Long: `Create a user in the white label group tied to this application's keys.

The identifier must be a stable, permanent handle for the user; calling
create again with the same identifier re-issues pairing material for the
existing user. If no identifier is given, a random UUID is generated and
printed.

Example:
  launchkeyctl whitelabel create
  launchkeyctl whitelabel create billing-user-17`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		identifier := uuid.NewString()
		if len(args) > 0 {
			identifier = args[0]
		}

		client, err := newClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build client: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		user, err := client.CreateWhiteLabelUser(ctx, identifier)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Create failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Identifier:   %s\n", identifier)
		fmt.Printf("QR code:      %s\n", user.QRCode)
		fmt.Printf("Pairing code: %s\n", user.Code)
	},
}

func init() {
	whitelabelCmd.AddCommand(whitelabelCreateCmd)
}
