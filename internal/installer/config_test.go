package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Domain:          "dns.example.com",
		Email:           "admin@dns.example.com",
		APIToken:        "0123456789012345678901234567890123456789",
		InstallDir:      filepath.Join(dir, "stack"),
		CredentialsPath: filepath.Join(dir, "credentials.env"),
	}
}

func Test_writeCredentialsCreate(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, WriteCredentials(cfg.CredentialsPath, cfg))

	info, err := os.Stat(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	vars, err := ReadCredentials(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIToken, vars[keyToken])
	assert.Equal(t, "admin@dns.example.com", vars[keyEmail])
	assert.Equal(t, "dns.example.com", vars[keyDomains])
}

func Test_writeCredentialsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, WriteCredentials(cfg.CredentialsPath, cfg))
	first, err := os.ReadFile(cfg.CredentialsPath)
	require.NoError(t, err)

	require.NoError(t, WriteCredentials(cfg.CredentialsPath, cfg))
	second, err := os.ReadFile(cfg.CredentialsPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	info, err := os.Stat(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func Test_writeCredentialsUpdatePreservesOtherLines(t *testing.T) {
	cfg := testConfig(t)

	seed := "# managed by dnsctl\nEXTRA=keepme\nCLOUDFLARE_API_TOKEN=old\n"
	require.NoError(t, os.WriteFile(cfg.CredentialsPath, []byte(seed), 0o600))

	require.NoError(t, WriteCredentials(cfg.CredentialsPath, cfg))

	content, err := os.ReadFile(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# managed by dnsctl\n")
	assert.Contains(t, string(content), "EXTRA=keepme\n")
	assert.Contains(t, string(content), "CLOUDFLARE_API_TOKEN="+cfg.APIToken+"\n")
	assert.NotContains(t, string(content), "CLOUDFLARE_API_TOKEN=old")

	vars, err := ReadCredentials(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, "dns.example.com", vars[keyDomains])
	assert.Equal(t, "admin@dns.example.com", vars[keyEmail])
}

func Test_writeCredentialsUnreadableFileNotOverwritten(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permission checks")
	}
	cfg := testConfig(t)

	seed := "EXTRA=keepme\n"
	require.NoError(t, os.WriteFile(cfg.CredentialsPath, []byte(seed), 0o200))

	assert.Error(t, WriteCredentials(cfg.CredentialsPath, cfg))

	require.NoError(t, os.Chmod(cfg.CredentialsPath, 0o600))
	content, err := os.ReadFile(cfg.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, seed, string(content))
}

func Test_readCredentialsMissing(t *testing.T) {
	_, err := ReadCredentials(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func Test_configPaths(t *testing.T) {
	cfg := Config{Domain: "dns.example.com", InstallDir: "/opt/dns.bibica.net"}
	assert.Equal(t, "/opt/dns.bibica.net/docker-compose.yml", cfg.ComposePath())
	assert.Equal(t, "/opt/dns.bibica.net/adguardhome/conf/AdGuardHome.yaml", cfg.AdGuardConfigPath())
	assert.Equal(t, "/opt/dns.bibica.net/certbot/conf/live/dns.example.com", cfg.CertLiveDir())
}

func Test_envOverrides(t *testing.T) {
	t.Setenv("DNSCTL_INSTALL_DIR", "/tmp/stack")
	t.Setenv("DNSCTL_CREDENTIALS", "/tmp/creds.env")
	t.Setenv("DNSCTL_BUNDLE_URL", "http://127.0.0.1:1/bundle.tar.gz")

	assert.Equal(t, "/tmp/stack", GetInstallDir())
	assert.Equal(t, "/tmp/creds.env", GetCredentialsPath())
	assert.Equal(t, "http://127.0.0.1:1/bundle.tar.gz", GetBundleURL())
}
