package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/effective-security/odoomcp/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ODOO_URL", "ODOO_DB", "ODOO_USERNAME", "ODOO_PASSWORD",
		"ODOO_API_KEY", "ODOO_TIMEOUT", "ODOO_MCP_TRANSPORT", "ODOO_MCP_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func Test_Load_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USERNAME", "reader")
	t.Setenv("ODOO_PASSWORD", "pw")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "stdio", cfg.Server.Transport)

	cc := cfg.ClientConfig()
	assert.Equal(t, "https://erp.example.com", cc.URL)
	assert.Equal(t, "prod", cc.Database)
	assert.Equal(t, config.DefaultTimeout, cc.Timeout)
	assert.Equal(t, "pw", cc.Secret())
}

func Test_Load_APIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USERNAME", "reader")
	t.Setenv("ODOO_PASSWORD", "pw")
	t.Setenv("ODOO_API_KEY", "key123")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "key123", cfg.ClientConfig().Secret())
}

func Test_Load_Timeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USERNAME", "reader")
	t.Setenv("ODOO_API_KEY", "key")

	t.Setenv("ODOO_TIMEOUT", "45")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.ClientConfig().Timeout)

	t.Setenv("ODOO_TIMEOUT", "1m30s")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.ClientConfig().Timeout)

	t.Setenv("ODOO_TIMEOUT", "soon")
	_, err = config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}

func Test_Load_MissingSettings(t *testing.T) {
	clearEnv(t)

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ODOO_URL")

	t.Setenv("ODOO_URL", "https://erp.example.com")
	_, err = config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ODOO_DB")

	t.Setenv("ODOO_DB", "prod")
	_, err = config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ODOO_USERNAME")

	t.Setenv("ODOO_USERNAME", "reader")
	_, err = config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ODOO_API_KEY or ODOO_PASSWORD")
}

func Test_Load_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "odoo-mcp.yaml")
	err := os.WriteFile(file, []byte(`
odoo:
  url: https://erp.example.com
  database: staging
  username: reader
  api_key: filekey
  timeout: 10s
server:
  transport: http
  addr: localhost:9090
`), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "localhost:9090", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.ClientConfig().Timeout)

	// environment overrides the file
	t.Setenv("ODOO_DB", "prod")
	cfg, err = config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Odoo.Database)
}

func Test_Load_BadTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USERNAME", "reader")
	t.Setenv("ODOO_API_KEY", "key")
	t.Setenv("ODOO_MCP_TRANSPORT", "sse")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported transport "sse"`)
}
