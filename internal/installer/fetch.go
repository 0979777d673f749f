package installer

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// bundleArtifacts are repository files that have no business on the host.
var bundleArtifacts = []string{
	"LICENSE", "LICENSE.md", "LICENSE.txt",
	"README", "README.md",
}

// FetchBundle downloads the release tarball and unpacks it into dest with
// the archive's top-level directory stripped, then removes license/readme
// artifacts and marks root-level shell scripts executable.
func FetchBundle(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download bundle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download bundle: unexpected status %s", resp.Status)
	}

	if err := ensureDir(dest, 0o755); err != nil {
		return err
	}
	if err := extractTarGz(resp.Body, dest); err != nil {
		return fmt.Errorf("unpack bundle: %w", err)
	}
	return cleanupBundle(dest)
}

func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		rel, ok := stripTopLevel(hdr.Name)
		if !ok {
			continue
		}
		target, err := securePath(dest, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := ensureDir(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := ensureDir(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// stripTopLevel drops the GitHub archive's "<repo>-<ref>/" prefix.
func stripTopLevel(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	parts := strings.SplitN(name, "/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func securePath(dest, rel string) (string, error) {
	target := filepath.Join(dest, rel)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", rel)
	}
	return target, nil
}

func cleanupBundle(dest string) error {
	for _, name := range bundleArtifacts {
		_ = os.Remove(filepath.Join(dest, name))
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sh") {
			continue
		}
		if err := os.Chmod(filepath.Join(dest, entry.Name()), 0o755); err != nil {
			return err
		}
	}
	return nil
}
