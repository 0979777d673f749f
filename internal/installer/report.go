package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const publicIPURL = "https://api.ipify.org"

// PublicIP asks a plain-text IP echo service for this host's address.
func PublicIP(ctx context.Context) (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	return fetchPublicIP(ctx, client, publicIPURL)
}

func fetchPublicIP(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(b))
	if ip == "" {
		return "", fmt.Errorf("ip lookup: empty response")
	}
	return ip, nil
}

type ConnectionInfo struct {
	Domain    string
	IP        string
	CertReady bool
}

// BuildConnectionInfo resolves the report data; the IP lookup is best
// effort and never blocks completion.
func BuildConnectionInfo(ctx context.Context, cfg Config) ConnectionInfo {
	ip, err := PublicIP(ctx)
	if err != nil {
		ip = "unknown"
	}
	return ConnectionInfo{
		Domain:    cfg.Domain,
		IP:        ip,
		CertReady: CertificatesReady(cfg),
	}
}

func (ci ConnectionInfo) Render() string {
	var b strings.Builder
	b.WriteString("Your DNS resolver endpoints:\n")
	fmt.Fprintf(&b, "  DoH   https://%s/dns-query\n", ci.Domain)
	fmt.Fprintf(&b, "  DoH3  https://%s/dns-query (HTTP/3)\n", ci.Domain)
	fmt.Fprintf(&b, "  DoT   tls://%s:853\n", ci.Domain)
	fmt.Fprintf(&b, "  DoQ   quic://%s:853\n", ci.Domain)
	fmt.Fprintf(&b, "  IP    %s\n", ci.IP)
	if !ci.CertReady {
		b.WriteString("\nCertificates are not issued yet; endpoints go live once certbot finishes.\n")
	}
	return b.String()
}
