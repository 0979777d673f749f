package installer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

type CheckResult struct {
	Name  string
	OK    bool
	Fatal bool
	Err   error
}

// RunChecks performs the pre-flight checks. Only the root check is fatal;
// the install flow must refuse to proceed past it, the rest are warnings.
func RunChecks(cfg Config) []CheckResult {
	checks := []struct {
		name  string
		fatal bool
		fn    func() error
	}{
		{"running as root", true, func() error {
			if os.Geteuid() != 0 {
				return errors.New("euid is not 0")
			}
			return nil
		}},
		{"docker binary", false, func() error {
			_, err := exec.LookPath("docker")
			return err
		}},
		{"docker compose", false, func() error {
			_, err := runCmdCapture("docker", "compose", "version")
			return err
		}},
		{"docker daemon", false, func() error {
			_, err := runCmdCapture("docker", "info")
			return err
		}},
		{"install dir writable", false, func() error {
			return writableCheck(cfg.InstallDir)
		}},
		{"disk space >= 2GiB", false, func() error {
			return diskCheck(filepath.Dir(cfg.InstallDir), 2)
		}},
		{"ports 53/443/853 status", false, func() error {
			return portCheck("53", "443", "853")
		}},
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		err := check.fn()
		results = append(results, CheckResult{Name: check.name, OK: err == nil, Fatal: check.fatal, Err: err})
	}
	return results
}

func writableCheck(dir string) error {
	if err := ensureDir(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "dnsctl-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

func diskCheck(path string, minGiB uint64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return err
	}
	free := (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024 * 1024)
	if free < minGiB {
		return fmt.Errorf("free space %dGiB < %dGiB", free, minGiB)
	}
	return nil
}

func portCheck(ports ...string) error {
	out, err := runCmdCapture("ss", "-ltn")
	if err != nil {
		return err
	}
	for _, port := range ports {
		if strings.Contains(out, ":"+port+" ") {
			return fmt.Errorf("port %s already in use", port)
		}
	}
	return nil
}
