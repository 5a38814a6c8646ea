package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "embedhttp",
		Short: "embedhttp is a small embeddable HTTP server",
		Long: `embedhttp serves HTTP/1.x requests through a servlet style request facade
with cookie bound sessions.

Configuration comes from environment variables, an optional .env file and an
optional YAML file named by CONFIG_FILE or --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

// Execute runs the command line. It is called by main.main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
