package installer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
	minTokenLength  = 40
)

var (
	labelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	tldRegex   = regexp.MustCompile(`^[a-zA-Z]{2,}$`)
)

// ValidateDomain checks hostname syntax only; no DNS lookup happens here.
func ValidateDomain(domain string) error {
	if domain == "" {
		return errors.New("domain is empty")
	}
	if len(domain) > maxDomainLength {
		return fmt.Errorf("domain exceeds %d characters", maxDomainLength)
	}
	if strings.Contains(domain, "..") {
		return errors.New("domain contains consecutive dots")
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return errors.New("domain needs at least two labels")
	}
	for _, label := range labels {
		if label == "" {
			return errors.New("domain has an empty label")
		}
		if len(label) > maxLabelLength {
			return fmt.Errorf("label %q exceeds %d characters", label, maxLabelLength)
		}
		if !labelRegex.MatchString(label) {
			return fmt.Errorf("label %q is not a valid hostname label", label)
		}
	}
	if tld := labels[len(labels)-1]; !tldRegex.MatchString(tld) {
		return fmt.Errorf("top-level label %q must be alphabetic and at least 2 characters", tld)
	}
	return nil
}

// ValidateTokenFormat is a coarse sanity filter; the liveness check against
// the Cloudflare API is what actually decides whether a token is usable.
func ValidateTokenFormat(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("token is shorter than %d characters", minTokenLength)
	}
	return nil
}
