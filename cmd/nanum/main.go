// Command nanum uploads and downloads end-to-end encrypted files through a
// nanum relay.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nanum",
		Short: "Share files end-to-end encrypted through a nanum relay",
	}

	cmd.AddCommand(uploadCmd())
	cmd.AddCommand(downloadCmd())
	return cmd
}
