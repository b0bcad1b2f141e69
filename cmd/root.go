package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "myaxum",
		Short: "Vite-style dev server, sample backend and SPA bootstrap client",
		Long: `myaxum bundles the three pieces of a single-page app setup:

  serve      the backend API on :3000
  dev        the development server on :3001, forwarding /api to the backend
  bootstrap  the client start-up sequence: fetch /api/json_sample, then mount #app`,
		SilenceUsage: true,
	}

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewDevCmd())
	root.AddCommand(NewBootstrapCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
