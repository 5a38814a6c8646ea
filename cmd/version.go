package cmd

import (
	"fmt"

	"embedhttp/internal/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(c.OutOrStdout(), version.GetShortVersion())
				return
			}
			fmt.Fprintln(c.OutOrStdout(), version.GetVersion())
		},
	}

	c.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return c
}
