package installer

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultInstallDir      = "/opt/dns.bibica.net"
	defaultCredentialsPath = "/root/.dns.bibica.net.env"
	defaultBundleURL       = "https://github.com/bibicadotnet/dns.bibica.net.v4/archive/refs/tags/v4.2.0.tar.gz"

	keyToken   = "CLOUDFLARE_API_TOKEN"
	keyEmail   = "CERTBOT_EMAIL"
	keyDomains = "CERTBOT_DOMAINS"
)

// credentialKeys fixes the order of keys in a freshly created credential
// file so that repeated runs produce byte-identical output.
var credentialKeys = []string{keyToken, keyEmail, keyDomains}

// Config carries everything the provisioning pipeline needs. The collection
// stage builds it once; everything downstream receives it by value.
type Config struct {
	Domain          string
	Email           string
	APIToken        string
	InstallDir      string
	CredentialsPath string
}

func NewConfig(domain, token string) Config {
	return Config{
		Domain:          domain,
		Email:           "admin@" + domain,
		APIToken:        token,
		InstallDir:      GetInstallDir(),
		CredentialsPath: GetCredentialsPath(),
	}
}

func (cfg Config) ComposePath() string {
	return filepath.Join(cfg.InstallDir, "docker-compose.yml")
}

func (cfg Config) AdGuardConfigPath() string {
	return filepath.Join(cfg.InstallDir, "adguardhome", "conf", "AdGuardHome.yaml")
}

func (cfg Config) CertLiveDir() string {
	return filepath.Join(cfg.InstallDir, "certbot", "conf", "live", cfg.Domain)
}

func (cfg Config) credentialValues() map[string]string {
	return map[string]string{
		keyToken:   cfg.APIToken,
		keyEmail:   cfg.Email,
		keyDomains: cfg.Domain,
	}
}

func GetInstallDir() string {
	if v := strings.TrimSpace(os.Getenv("DNSCTL_INSTALL_DIR")); v != "" {
		return v
	}
	return defaultInstallDir
}

func GetCredentialsPath() string {
	if v := strings.TrimSpace(os.Getenv("DNSCTL_CREDENTIALS")); v != "" {
		return v
	}
	return defaultCredentialsPath
}

func GetBundleURL() string {
	if v := strings.TrimSpace(os.Getenv("DNSCTL_BUNDLE_URL")); v != "" {
		return v
	}
	return defaultBundleURL
}

func ReadCredentials(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vars := map[string]string{}
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		vars[k] = v
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// WriteCredentials creates or updates the credential file. Updates rewrite
// known keys in place and leave any other line untouched; permissions and
// ownership are reasserted on every call.
func WriteCredentials(path string, cfg Config) error {
	vars := cfg.credentialValues()

	file, err := os.Open(path)
	if err != nil {
		// Only absence means "create"; an unreadable existing file must
		// not be blindly overwritten.
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		var b strings.Builder
		for _, k := range credentialKeys {
			b.WriteString(k + "=" + vars[k] + "\n")
		}
		if err := ensureDir(filepath.Dir(path), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
			return err
		}
		return restrictCredentials(path)
	}

	written := map[string]bool{}
	var lines []string
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := s.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines = append(lines, line)
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		if len(parts) != 2 {
			lines = append(lines, line)
			continue
		}
		key := strings.TrimSpace(parts[0])
		if newVal, ok := vars[key]; ok {
			lines = append(lines, key+"="+newVal)
			written[key] = true
		} else {
			lines = append(lines, line)
		}
	}
	if err := s.Err(); err != nil {
		file.Close()
		return err
	}
	file.Close()

	for _, k := range credentialKeys {
		if !written[k] {
			lines = append(lines, k+"="+vars[k])
		}
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	return restrictCredentials(path)
}

func restrictCredentials(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		return err
	}
	// Ownership can only be asserted when running privileged.
	if os.Geteuid() == 0 {
		return os.Chown(path, 0, 0)
	}
	return nil
}
