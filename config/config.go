package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/minminkikiki/kaia-sdk/transport"
)

// Default configuration constants
const (
	EnvPrefix = "KAIA"

	DefaultTimeoutMs    = 30000
	DefaultAuthHeader   = "Authorization"
	DefaultPingInterval = 30 * time.Second
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "json"
)

// Config describes one node endpoint and how the client talks to it. It is
// built explicitly by the caller; there is no process-wide instance.
type Config struct {
	Endpoint  string
	Transport transport.Kind // derived from the Endpoint scheme when empty
	Timeout   time.Duration

	TLSVerify  bool
	TLSCAFile  string
	AuthHeader string
	AuthToken  string

	// Zero disables each of these.
	RateLimit     float64 // calls per second
	RateBurst     int
	MaxConcurrent int64
	CacheSize     int

	PingInterval time.Duration // websocket only
	LogLevel     string
	LogFormat    string
}

// Default returns a config for endpoint with every other field defaulted.
func Default(endpoint string) *Config {
	return &Config{
		Endpoint:     endpoint,
		Timeout:      DefaultTimeoutMs * time.Millisecond,
		TLSVerify:    true,
		AuthHeader:   DefaultAuthHeader,
		PingInterval: DefaultPingInterval,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("transport", "")
	v.SetDefault("timeout_ms", DefaultTimeoutMs)
	v.SetDefault("tls_verify", true)
	v.SetDefault("tls_ca_file", "")
	v.SetDefault("auth_header", DefaultAuthHeader)
	v.SetDefault("auth_token", "")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_burst", 0)
	v.SetDefault("max_concurrent", 0)
	v.SetDefault("cache_size", 0)
	v.SetDefault("ping_interval", DefaultPingInterval)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
}

// NewViper returns an isolated viper instance reading KAIA_* environment
// variables, with every key defaulted.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// FromViper builds and validates a config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Endpoint:      v.GetString("endpoint"),
		Transport:     transport.Kind(strings.ToLower(v.GetString("transport"))),
		Timeout:       time.Duration(v.GetInt64("timeout_ms")) * time.Millisecond,
		TLSVerify:     v.GetBool("tls_verify"),
		TLSCAFile:     v.GetString("tls_ca_file"),
		AuthHeader:    v.GetString("auth_header"),
		AuthToken:     v.GetString("auth_token"),
		RateLimit:     v.GetFloat64("rate_limit"),
		RateBurst:     v.GetInt("rate_burst"),
		MaxConcurrent: v.GetInt64("max_concurrent"),
		CacheSize:     v.GetInt("cache_size"),
		PingInterval:  v.GetDuration("ping_interval"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &Error{Field: ".env", Message: "cannot read", Cause: err}
	}
	return FromViper(NewViper())
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return &Error{Field: "endpoint", Message: "required field is missing"}
	}
	if _, err := c.TransportKind(); err != nil {
		return err
	}
	if err := c.validateNumbers(); err != nil {
		return err
	}
	return c.validateLogSettings()
}

func (c Config) validateNumbers() error {
	switch {
	case c.Timeout < 0:
		return &Error{Field: "timeout_ms", Message: "must not be negative"}
	case c.RateLimit < 0:
		return &Error{Field: "rate_limit", Message: "must not be negative"}
	case c.RateBurst < 0:
		return &Error{Field: "rate_burst", Message: "must not be negative"}
	case c.MaxConcurrent < 0:
		return &Error{Field: "max_concurrent", Message: "must not be negative"}
	case c.CacheSize < 0:
		return &Error{Field: "cache_size", Message: "must not be negative"}
	case c.PingInterval < 0:
		return &Error{Field: "ping_interval", Message: "must not be negative"}
	}
	return nil
}

func (c Config) validateLogSettings() error {
	switch c.LogFormat {
	case "", "json", "plain":
	default:
		return &Error{Field: "log_format", Message: fmt.Sprintf("invalid value '%s', must be 'json' or 'plain'", c.LogFormat)}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return &Error{Field: "log_level", Message: fmt.Sprintf("invalid value '%s', must be one of debug, info, warn, error", c.LogLevel)}
	}
	return nil
}

// TransportKind resolves the transport from the endpoint scheme and checks
// it against an explicit Transport.
func (c Config) TransportKind() (transport.Kind, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", &Error{Field: "endpoint", Message: "not a valid URL", Cause: err}
	}

	var derived transport.Kind
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		derived = transport.HTTP
	case "ws", "wss":
		derived = transport.WebSocket
	default:
		return "", &Error{Field: "endpoint", Message: fmt.Sprintf("unsupported scheme '%s'", u.Scheme)}
	}
	if u.Host == "" {
		return "", &Error{Field: "endpoint", Message: "missing host"}
	}

	switch c.Transport {
	case "":
		return derived, nil
	case transport.HTTP, transport.WebSocket:
		if c.Transport != derived {
			return "", &Error{Field: "transport", Message: fmt.Sprintf("'%s' contradicts endpoint scheme '%s'", c.Transport, u.Scheme)}
		}
		return derived, nil
	default:
		return "", &Error{Field: "transport", Message: fmt.Sprintf("invalid value '%s', must be 'http' or 'ws'", c.Transport)}
	}
}

// TLSConfig returns nil when the system defaults apply.
func (c Config) TLSConfig() (*tls.Config, error) {
	if c.TLSVerify && c.TLSCAFile == "" {
		return nil, nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if !c.TLSVerify {
		cfg.InsecureSkipVerify = true
	}
	if c.TLSCAFile != "" {
		pem, err := os.ReadFile(c.TLSCAFile)
		if err != nil {
			return nil, &Error{Field: "tls_ca_file", Message: "cannot read", Cause: err}
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, &Error{Field: "tls_ca_file", Message: "no PEM certificates found"}
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// Headers returns the extra request headers, the auth header when a token
// is set.
func (c Config) Headers() map[string]string {
	if c.AuthToken == "" {
		return nil
	}
	name := c.AuthHeader
	if name == "" {
		name = DefaultAuthHeader
	}
	return map[string]string{name: c.AuthToken}
}

// TransportOptions assembles everything the transport needs.
func (c Config) TransportOptions() (transport.Options, error) {
	tlsConfig, err := c.TLSConfig()
	if err != nil {
		return transport.Options{}, err
	}
	return transport.Options{
		URL:          c.Endpoint,
		Timeout:      c.Timeout,
		TLSConfig:    tlsConfig,
		Header:       c.Headers(),
		PingInterval: c.PingInterval,
	}, nil
}

func (c Config) GetLogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (c Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return DefaultLogFormat
	}
	return c.LogFormat
}
