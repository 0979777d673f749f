package installer

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pbnjay/memory"
	"gopkg.in/yaml.v3"
)

// domainPlaceholder is the literal domain the bundle ships with.
const domainPlaceholder = "dns.bibica.net"

var maxMemoryRegex = regexp.MustCompile(`--maxmemory \d+mb`)

// PatchDomain replaces the placeholder domain inside a fetched config file.
// Applying it twice with the same domain is a no-op.
func PatchDomain(path, domain string) error {
	return rewriteFile(path, func(content string) string {
		return strings.ReplaceAll(content, domainPlaceholder, domain)
	})
}

// PatchMaxMemory rewrites the redis --maxmemory flag in the compose file.
func PatchMaxMemory(path string, mb uint64) error {
	return rewriteFile(path, func(content string) string {
		return maxMemoryRegex.ReplaceAllString(content, fmt.Sprintf("--maxmemory %dmb", mb))
	})
}

// RedisMaxMemoryMB is half of total system memory, in whole megabytes.
func RedisMaxMemoryMB() uint64 {
	return memory.TotalMemory() / 1024 / 1024 / 2
}

func rewriteFile(path string, transform func(string) string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	updated := transform(string(b))
	if updated == string(b) {
		return nil
	}
	return os.WriteFile(path, []byte(updated), info.Mode().Perm())
}

// ComposeServices lists the service names defined in a compose file.
func ComposeServices(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	names := make([]string, 0, len(doc.Services))
	for name := range doc.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
