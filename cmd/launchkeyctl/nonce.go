package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// nonceCmd represents the nonce command
var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Fetch a single-use nonce",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build client: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		nonce, err := client.Nonce(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Nonce failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(nonce)
	},
}

func init() {
	rootCmd.AddCommand(nonceCmd)
}
