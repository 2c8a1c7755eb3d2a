package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// whitelabelCmd represents the whitelabel command
var whitelabelCmd = &cobra.Command{
	Use:   "whitelabel",
	Short: "Manage white label users",
	Long:  `Manage users in a white label group.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'whitelabel' requires a subcommand (create)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(whitelabelCmd)
}
