package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompose = `services:
  adguardhome:
    image: adguard/adguardhome
  unbound:
    image: klutchell/unbound
  redis:
    image: redis:alpine
    command: redis-server --maxmemory 512mb --maxmemory-policy allkeys-lru
  certbot:
    image: certbot/dns-cloudflare
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_patchDomain(t *testing.T) {
	path := writeTempFile(t, "AdGuardHome.yaml", "tls:\n  server_name: dns.bibica.net\n  port_dns_over_tls: 853\n")

	require.NoError(t, PatchDomain(path, "dns.example.com"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "server_name: dns.example.com")
	assert.NotContains(t, string(b), domainPlaceholder)

	// second run is a no-op
	before, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, PatchDomain(path, "dns.example.com"))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func Test_patchMaxMemory(t *testing.T) {
	path := writeTempFile(t, "docker-compose.yml", sampleCompose)

	require.NoError(t, PatchMaxMemory(path, 2048))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "--maxmemory 2048mb")
	assert.NotContains(t, string(b), "--maxmemory 512mb")
	assert.Contains(t, string(b), "--maxmemory-policy allkeys-lru")
}

func Test_patchMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")
	assert.Error(t, PatchDomain(missing, "dns.example.com"))
	assert.Error(t, PatchMaxMemory(missing, 1024))
}

func Test_composeServices(t *testing.T) {
	path := writeTempFile(t, "docker-compose.yml", sampleCompose)

	names, err := ComposeServices(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"adguardhome", "certbot", "redis", "unbound"}, names)
}

func Test_composeServicesBadYAML(t *testing.T) {
	path := writeTempFile(t, "docker-compose.yml", "services: [not: a: map\n")
	_, err := ComposeServices(path)
	assert.Error(t, err)
}
