package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1*time.Second, cfg.Scraper.DelayMin)
	assert.Equal(t, 3*time.Second, cfg.Scraper.DelayMax)
	assert.Empty(t, cfg.Proxy.Servers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("SCRAPER_DELAY_MIN", "500ms")
	t.Setenv("SCRAPER_DELAY_MAX", "2s")
	t.Setenv("PROXY_SERVERS", "http://p1:8080,http://p2:8080")
	t.Setenv("PROXY_USERNAME", "user")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.DelayMin)
	assert.Equal(t, []string{"http://p1:8080", "http://p2:8080"}, cfg.Proxy.Servers)
	assert.Equal(t, "user", cfg.Proxy.Username)
}

func TestValidate(t *testing.T) {
	t.Setenv("SCRAPER_DELAY_MIN", "10s")
	t.Setenv("SCRAPER_DELAY_MAX", "1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateProxyCredentialsWithoutServers(t *testing.T) {
	t.Setenv("PROXY_USERNAME", "user")

	_, err := Load()
	assert.Error(t, err)
}
