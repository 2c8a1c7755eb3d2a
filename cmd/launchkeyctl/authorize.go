package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	launchkey "github.com/WPPlugins/launchkey"
)

// authorizeCmd represents the authorize command
var authorizeCmd = &cobra.Command{
	Use:   "authorize [username]",
	Short: "Push an authorization request to a user's devices",
	Long: `Push an authorization request to the user's paired devices.

With --wait the command polls until the user answers, records the outcome
with the service, and exits 0 on approval or 1 on denial. Without it the
auth request ID is printed for later polling.

Example:
  launchkeyctl authorize someuser --wait
  launchkeyctl authorize someuser --session=false --wait --timeout 2m`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		session, _ := cmd.Flags().GetBool("session")
		wait, _ := cmd.Flags().GetBool("wait")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		client, err := newClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build client: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		auth, err := client.Authorize(ctx, username, session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Authorize failed: %v\n", err)
			os.Exit(1)
		}

		if !wait {
			fmt.Printf("Auth request: %s\n", auth.ID)
			return
		}

		fmt.Fprintf(os.Stderr, "Waiting for %s to respond...\n", username)
		result, err := client.WaitForResponse(ctx, auth.ID, launchkey.WithWaitTimeout(timeout))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Wait failed: %v\n", err)
			os.Exit(1)
		}

		if err := client.Log(ctx, auth.ID, launchkey.ActionAuthenticate, result.Authorized); err != nil {
			fmt.Fprintf(os.Stderr, "Log failed: %v\n", err)
			os.Exit(1)
		}

		if !result.Authorized {
			fmt.Println("Denied")
			os.Exit(1)
		}
		fmt.Println("Authorized")
		fmt.Printf("User hash: %s\n", result.UserHash)
		fmt.Printf("Device:    %s\n", result.DeviceID)
	},
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
	authorizeCmd.Flags().Bool("session", true, "request a session login rather than a one-off transaction")
	authorizeCmd.Flags().Bool("wait", false, "poll until the user responds and record the outcome")
	authorizeCmd.Flags().Duration("timeout", time.Minute, "how long --wait polls before giving up")
}
