package installer

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

type ServiceInfo struct {
	Name        string
	Description string
	Ports       []string
}

// ServiceCatalog describes the containers the bundle ships. It is display
// metadata only; the compose file is the source of truth at runtime.
var ServiceCatalog = []ServiceInfo{
	{
		Name:        "adguardhome",
		Description: "DoH/DoT/DoH3/DoQ frontend and filtering resolver",
		Ports:       []string{"443", "853"},
	},
	{
		Name:        "unbound",
		Description: "Validating recursive resolver behind AdGuard Home",
		Ports:       []string{"127.0.0.1:5335"},
	},
	{
		Name:        "redis",
		Description: "Response cache",
		Ports:       []string{"127.0.0.1:6379"},
	},
	{
		Name:        "certbot",
		Description: "Cloudflare DNS-01 certificate issuance and renewal",
		Ports:       []string{},
	},
}

func Run(args []string) error {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "install":
		return cmdInstall(cmdArgs)
	case "doctor":
		return cmdDoctor()
	case "status":
		return cmdStatus(cmdArgs)
	case "verify":
		return cmdVerify(cmdArgs)
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage() {
	fmt.Println(`dnsctl - self-hosted encrypted DNS stack installer

Usage:
  dnsctl                  # interactive setup wizard
  dnsctl install          # guided install (prompts on stdin)
  dnsctl status           # stack status
  dnsctl verify [--domain dns.example.com]
  dnsctl doctor           # pre-flight system checks

Stack services:`)

	for _, s := range ServiceCatalog {
		ports := "-"
		if len(s.Ports) > 0 {
			ports = strings.Join(s.Ports, ",")
		}
		fmt.Printf("  - %-12s %-50s ports: %s\n", s.Name, s.Description, ports)
	}
}

func cmdInstall(args []string) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if os.Geteuid() != 0 {
		return errors.New("install must run as root")
	}

	ctx := context.Background()
	cfg, err := CollectConfig(ctx, NewCloudflareClient())
	if err != nil {
		return err
	}

	if err := NewPipeline().Run(ctx, cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(BuildConnectionInfo(ctx, cfg).Render())
	fmt.Printf("\nnext: dnsctl verify --domain %s\n", cfg.Domain)
	return nil
}

func cmdDoctor() error {
	cfg := Config{InstallDir: GetInstallDir()}
	for _, r := range RunChecks(cfg) {
		switch {
		case r.OK:
			fmt.Printf("[ OK ] %s\n", r.Name)
		case r.Fatal:
			fmt.Printf("[FAIL] %s: %v\n", r.Name, r.Err)
		default:
			fmt.Printf("[WARN] %s: %v\n", r.Name, r.Err)
		}
	}
	return nil
}

func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	installDir := GetInstallDir()
	composePath := installDir + "/docker-compose.yml"

	services, err := ComposeServices(composePath)
	if err != nil {
		return fmt.Errorf("stack not installed at %s: %w", installDir, err)
	}
	fmt.Printf("install dir: %s\n", installDir)
	fmt.Printf("services: %s\n", strings.Join(services, ", "))

	output, cmdErr := runCmdCapture("docker", "compose", "-f", composePath, "ps")
	if cmdErr != nil {
		fmt.Println("docker compose status unavailable:")
		fmt.Println(strings.TrimSpace(output))
		return nil
	}
	fmt.Println(output)
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	domain := fs.String("domain", "", "stack domain to probe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *domain == "" {
		saved, err := ReadCredentials(GetCredentialsPath())
		if err != nil || saved[keyDomains] == "" {
			return errors.New("no saved domain found, pass --domain")
		}
		*domain = saved[keyDomains]
	}

	ctx := context.Background()
	if err := VerifyResolver(ctx, *domain); err != nil {
		return err
	}
	fmt.Printf("%s answers DNS-over-TLS queries\n", *domain)
	return nil
}
