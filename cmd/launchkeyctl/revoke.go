package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// revokeCmd represents the revoke command
var revokeCmd = &cobra.Command{
	Use:   "revoke [auth-request]",
	Short: "End an authorized session",
	Long: `End an authorized session by recording a Revoke log entry for its auth
request, the application-side counterpart of a device de-orbit.

Example:
  launchkeyctl revoke 71xmtyam2nv0vv1wgpayqzo9x9s8y2d8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build client: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		if err := client.Deorbit(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Revoke failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Session revoked")
	},
}

func init() {
	rootCmd.AddCommand(revokeCmd)
}
