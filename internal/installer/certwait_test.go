package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchCertFiles(t *testing.T, dir string, names []string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("pem"), 0o644))
	}
}

func Test_waitForCertificatesAlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	touchCertFiles(t, dir, certFileNames)

	err := WaitForCertificates(context.Background(), dir, CertFileNames(), 10*time.Millisecond, time.Second)
	assert.NoError(t, err)
}

func Test_waitForCertificatesAppearLater(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "live", "dns.example.com")

	go func() {
		time.Sleep(50 * time.Millisecond)
		touchCertFiles(t, dir, certFileNames)
	}()

	err := WaitForCertificates(context.Background(), dir, CertFileNames(), 10*time.Millisecond, 5*time.Second)
	assert.NoError(t, err)
}

func Test_waitForCertificatesTimeout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "live", "dns.example.com")

	start := time.Now()
	err := WaitForCertificates(context.Background(), dir, CertFileNames(), 10*time.Millisecond, 100*time.Millisecond)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func Test_waitForCertificatesCancelled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "live", "dns.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitForCertificates(ctx, dir, CertFileNames(), 10*time.Millisecond, 5*time.Second)
	assert.Error(t, err)
}

func Test_waitForCertificatesPartialSet(t *testing.T) {
	dir := t.TempDir()
	touchCertFiles(t, dir, []string{"fullchain.pem"})

	err := WaitForCertificates(context.Background(), dir, CertFileNames(), 10*time.Millisecond, 100*time.Millisecond)
	assert.Error(t, err)
}

func Test_certificatesReady(t *testing.T) {
	cfg := Config{Domain: "dns.example.com", InstallDir: t.TempDir()}
	assert.False(t, CertificatesReady(cfg))

	touchCertFiles(t, cfg.CertLiveDir(), certFileNames)
	assert.True(t, CertificatesReady(cfg))
}
