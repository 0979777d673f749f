package installer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_validateDomain(t *testing.T) {
	valid := []string{
		"dns.example.com",
		"example.com",
		"a.b.c.d.example.org",
		"xn--bcher-kva.example",
		"my-dns.example.co",
		"1.2.3.example",
	}
	for _, d := range valid {
		assert.NoError(t, ValidateDomain(d), d)
	}

	invalid := []string{
		"",
		"example",
		"dns..example.com",
		".example.com",
		"example.com.",
		"-dns.example.com",
		"dns-.example.com",
		"dns.example.c",
		"dns.example.123",
		"dns_internal.example.com",
		strings.Repeat("a", 64) + ".example.com",
		strings.Repeat("abcdefghi.", 26) + "example.com", // > 253 chars
	}
	for _, d := range invalid {
		assert.Error(t, ValidateDomain(d), d)
	}
}

func Test_validateTokenFormat(t *testing.T) {
	assert.Error(t, ValidateTokenFormat(""))
	assert.Error(t, ValidateTokenFormat(strings.Repeat("x", 39)))
	assert.NoError(t, ValidateTokenFormat(strings.Repeat("x", 40)))
	assert.NoError(t, ValidateTokenFormat(strings.Repeat("x", 120)))
}
