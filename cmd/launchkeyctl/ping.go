package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check service availability",
	Long: `Check service availability and print the service clock and its current
RSA public key.

Example:
  launchkeyctl ping`,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build client: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		resp, err := client.Ping(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ping failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Date stamp:     %s\n", resp.DateStamp)
		fmt.Printf("LaunchKey time: %s\n", resp.LaunchKeyTime)
		fmt.Printf("Public key:\n%s", resp.Key)
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
