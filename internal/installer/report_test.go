package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_fetchPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("203.0.113.7\n"))
	}))
	defer srv.Close()

	ip, err := fetchPublicIP(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func Test_fetchPublicIPEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	_, err := fetchPublicIP(context.Background(), srv.Client(), srv.URL)
	assert.Error(t, err)
}

func Test_fetchPublicIPBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fetchPublicIP(context.Background(), srv.Client(), srv.URL)
	assert.Error(t, err)
}

func Test_renderConnectionInfo(t *testing.T) {
	ci := ConnectionInfo{Domain: "dns.example.com", IP: "203.0.113.7", CertReady: true}
	out := ci.Render()

	assert.Contains(t, out, "https://dns.example.com/dns-query")
	assert.Contains(t, out, "tls://dns.example.com:853")
	assert.Contains(t, out, "quic://dns.example.com:853")
	assert.Contains(t, out, "203.0.113.7")
	assert.NotContains(t, out, "not issued yet")

	ci.CertReady = false
	assert.Contains(t, ci.Render(), "not issued yet")
}
