// Package testutil provides helpers for integration tests: an HTTP
// server with a Maven repository layout and jar fixtures with a real
// META-INF/MANIFEST.MF.
package testutil

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewRepositoryServer starts an HTTP server serving the given files,
// keyed by request path (e.g. "/org/apache/poi/poi/5.2.5/poi-5.2.5.jar").
// The server is shut down when the test finishes.
func NewRepositoryServer(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// Checksum returns the lowercase hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// JarBytes builds a minimal jar with the given main manifest attributes.
func JarBytes(t *testing.T, attributes map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, "Manifest-Version: 1.0\r\n")
	require.NoError(t, err)
	for k, v := range attributes {
		_, err = fmt.Fprintf(w, "%s: %s\r\n", k, v)
		require.NoError(t, err)
	}
	_, err = fmt.Fprintf(w, "\r\n")
	require.NoError(t, err)

	w, err = zw.Create("com/example/Placeholder.class")
	require.NoError(t, err)
	_, err = w.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}
