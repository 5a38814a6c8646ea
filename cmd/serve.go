package cmd

import (
	"fmt"
	"os"

	"embedhttp/internal/bootstrap"
	"embedhttp/internal/config"

	"github.com/spf13/cobra"
)

type serveFlags struct {
	configFile string
	port       string
	logLevel   string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := flags.apply(); err != nil {
				return err
			}

			conf, err := config.MustLoad()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			b, err := bootstrap.New(conf, nil)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			return b.Run()
		},
	}

	c.Flags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	c.Flags().StringVarP(&flags.port, "port", "p", "", "HTTP port (overrides HTTP_PORT)")
	c.Flags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	return c
}

// apply exports flags as the environment variables the config loader reads,
// so flags win over every other source.
func (f serveFlags) apply() error {
	for key, val := range map[string]string{
		"CONFIG_FILE": f.configFile,
		"HTTP_PORT":   f.port,
		"LOG_LEVEL":   f.logLevel,
	} {
		if val == "" {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
