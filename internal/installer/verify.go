package installer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// VerifyResolver sends a DoT query to the freshly installed stack and
// checks that it answers at all. Any successful exchange counts; the
// resolver's answer content is its own business.
func VerifyResolver(ctx context.Context, domain string) error {
	client := &dns.Client{Net: "tcp-tls", Timeout: 10 * time.Second}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeA)

	r, _, err := client.ExchangeContext(ctx, m, net.JoinHostPort(domain, "853"))
	if err != nil {
		return fmt.Errorf("DoT query against %s: %w", domain, err)
	}
	if r.Rcode != dns.RcodeSuccess && r.Rcode != dns.RcodeNameError {
		return fmt.Errorf("DoT query returned %s", dns.RcodeToString[r.Rcode])
	}
	return nil
}
