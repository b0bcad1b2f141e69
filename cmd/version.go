package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myaxum/myaxum/internal/build"
)

// NewVersionCmd returns the "version" subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "myaxum "+build.String())
			return err
		},
	}
}
