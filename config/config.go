package config

import "time"

type Config struct {
	Service     *ServiceConfig
	API         *APIConfig
	Realtime    *RealtimeConfig
	Credentials *CredentialsConfig
	Logger      *LoggerConfig
	Tracer      *TracerConfig
	Account     *AccountConfig
}

type ServiceConfig struct {
	Name string
	Env  string
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables
	RateBurst int
}

type RealtimeConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadLimit        int64
}

type CredentialsConfig struct {
	DBPath     string
	Passphrase string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TracerConfig struct {
	Address string
}

// AccountConfig holds optional sign-in credentials for the command-line client
type AccountConfig struct {
	Username string
	Password string
}

// APIURL is the REST base including the version prefix
func (c *Config) APIURL() string {
	return c.API.BaseURL + "/api/v1"
}

func (c *Config) IsProduction() bool {
	return c != nil && c.Service.Env == "production"
}
