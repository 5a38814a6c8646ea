package config

import "time"

type Config interface {
	ListenAddr() string
	HTTPPort() string
	ServerName() string

	SessionTTL() time.Duration
	SessionSweepInterval() time.Duration

	TempDir() string
	MaxPostSize() int64
	ReadTimeout() time.Duration

	LogLevel() string
	LogFormat() string

	MetricsEnabled() bool
	MetricsPort() string

	TrustedProxies() []string

	// Warnings lists settings that were rejected and replaced by defaults.
	Warnings() []string
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	file, err := loadConfigFile(getenv("CONFIG_FILE", ""))
	if err != nil {
		return nil, err
	}

	cfg, err := parse(file)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) ListenAddr() string                  { return c.listenAddr }
func (c *config) HTTPPort() string                    { return c.httpPort }
func (c *config) ServerName() string                  { return c.serverName }
func (c *config) SessionTTL() time.Duration           { return c.sessionTTL }
func (c *config) SessionSweepInterval() time.Duration { return c.sessionSweepInterval }
func (c *config) TempDir() string                     { return c.tempDir }
func (c *config) MaxPostSize() int64                  { return c.maxPostSize }
func (c *config) LogLevel() string                    { return c.logLevel }
func (c *config) LogFormat() string                   { return c.logFormat }
func (c *config) MetricsEnabled() bool                { return c.metricsEnabled }
func (c *config) MetricsPort() string                 { return c.metricsPort }
func (c *config) ReadTimeout() time.Duration          { return c.readTimeout }
func (c *config) TrustedProxies() []string            { return c.trustedProxies }
func (c *config) Warnings() []string                  { return c.warnings }
