// Package config loads the server configuration from an optional YAML
// file and the process environment. Environment values override file
// values; the API key takes precedence over the password when both are
// present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/effective-security/x/configloader"
)

// Default settings.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultTransport = "stdio"
	DefaultHTTPAddr  = "localhost:8080"
)

// Config is the complete server configuration.
type Config struct {
	Odoo   OdooConfig   `json:"odoo" yaml:"odoo"`
	Server ServerConfig `json:"server" yaml:"server"`
}

// OdooConfig describes the remote Odoo endpoint and credentials.
type OdooConfig struct {
	URL      string `json:"url" yaml:"url"`
	Database string `json:"database" yaml:"database"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Timeout accepts a Go duration ("30s") or plain seconds ("30")
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ServerConfig describes the MCP transport to serve.
type ServerConfig struct {
	// Transport is either "stdio" or "http"
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
	// Addr is the listen address of the HTTP transport
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Load reads the optional file, applies environment overrides and
// validates the result.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to load config %q", file)
		}
	}
	applyEnv(cfg)

	if cfg.Server.Transport == "" {
		cfg.Server.Transport = DefaultTransport
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultHTTPAddr
	}

	err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&cfg.Odoo.URL, "ODOO_URL")
	setIfPresent(&cfg.Odoo.Database, "ODOO_DB")
	setIfPresent(&cfg.Odoo.Username, "ODOO_USERNAME")
	setIfPresent(&cfg.Odoo.Password, "ODOO_PASSWORD")
	setIfPresent(&cfg.Odoo.APIKey, "ODOO_API_KEY")
	setIfPresent(&cfg.Odoo.Timeout, "ODOO_TIMEOUT")
	setIfPresent(&cfg.Server.Transport, "ODOO_MCP_TRANSPORT")
	setIfPresent(&cfg.Server.Addr, "ODOO_MCP_ADDR")
}

func (c *Config) validate() error {
	if c.Odoo.URL == "" {
		return errors.New("odoo URL is not configured: set ODOO_URL")
	}
	if c.Odoo.Database == "" {
		return errors.New("odoo database is not configured: set ODOO_DB")
	}
	if c.Odoo.Username == "" {
		return errors.New("odoo username is not configured: set ODOO_USERNAME")
	}
	if c.Odoo.Password == "" && c.Odoo.APIKey == "" {
		return errors.New("odoo credentials are not configured: set ODOO_API_KEY or ODOO_PASSWORD")
	}
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return errors.Errorf("unsupported transport %q: use stdio or http", c.Server.Transport)
	}
	if _, err := c.Odoo.timeout(); err != nil {
		return err
	}
	return nil
}

func (c *OdooConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.Atoi(c.Timeout); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Errorf("invalid timeout %q: use a duration like 30s or plain seconds", c.Timeout)
	}
	return d, nil
}

// ClientConfig converts the validated configuration into the RPC
// adapter's view of it.
func (c *Config) ClientConfig() odoorpc.Config {
	timeout, _ := c.Odoo.timeout()
	return odoorpc.Config{
		URL:      c.Odoo.URL,
		Database: c.Odoo.Database,
		Username: c.Odoo.Username,
		Password: c.Odoo.Password,
		APIKey:   c.Odoo.APIKey,
		Timeout:  timeout,
	}
}
