package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	certPollInterval = 5 * time.Second
	certWaitBudget   = 120 * time.Second
)

// certFileNames are the artifacts certbot drops once issuance succeeds.
// Existence is all we check; content validity is the resolver's problem.
var certFileNames = []string{"fullchain.pem", "privkey.pem", "chain.pem"}

// WaitForCertificates blocks until every expected file exists under dir,
// the budget runs out, or ctx is cancelled. It reacts to filesystem events
// where possible and falls back to fixed-interval polling.
func WaitForCertificates(ctx context.Context, dir string, names []string, interval, budget time.Duration) error {
	if certFilesPresent(dir, names) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	// The live directory only appears after certbot's first issuance, so
	// watch the nearest existing ancestor. Watcher failures degrade to
	// polling alone.
	var events chan fsnotify.Event
	var watchErrs chan error
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if werr := watchNearest(watcher, dir); werr == nil {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("certificates not ready after %s", budget)
		case <-events:
			if certFilesPresent(dir, names) {
				return nil
			}
		case <-watchErrs:
			// Polling still covers us.
		case <-ticker.C:
			if certFilesPresent(dir, names) {
				return nil
			}
		}
	}
}

// CertFileNames returns the expected certificate artifact names.
func CertFileNames() []string {
	names := make([]string, len(certFileNames))
	copy(names, certFileNames)
	return names
}

// CertificatesReady reports whether the stack's certificate set exists.
func CertificatesReady(cfg Config) bool {
	return certFilesPresent(cfg.CertLiveDir(), certFileNames)
}

func certFilesPresent(dir string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func watchNearest(w *fsnotify.Watcher, dir string) error {
	for d := dir; ; d = filepath.Dir(d) {
		if dirExists(d) {
			return w.Add(d)
		}
		if d == filepath.Dir(d) {
			return fmt.Errorf("no existing ancestor for %s", dir)
		}
	}
}
