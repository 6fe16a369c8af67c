package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a redis-backed config listening on port and returns its path
func writeConfig(t *testing.T, redisAddr string, port int) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	catalog := filepath.Join(wd, "..", "..", "data", "skylanders.json")

	content := fmt.Sprintf(`
server:
  host: 127.0.0.1
  port: %d
log:
  level: error
catalog:
  path: %s
storage:
  type: redis
  redis_url: redis://%s/0
`, port, catalog, redisAddr)

	path := filepath.Join(t.TempDir(), "skylandly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestRunShutsDownCleanlyOnCancel(t *testing.T) {
	mini := miniredis.RunT(t)
	port := freePort(t)
	path := writeConfig(t, mini.Addr(), port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-config", path}, &bytes.Buffer{})
	}()

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Eventually(t, func() bool {
		return mini.CurrentConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRunReleasesStorageWhenListenFails(t *testing.T) {
	mini := miniredis.RunT(t)

	// Hold the port so the server cannot bind it
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	path := writeConfig(t, mini.Addr(), ln.Addr().(*net.TCPAddr).Port)

	code := run(context.Background(), []string{"-config", path}, &bytes.Buffer{})

	assert.Equal(t, 1, code)
	assert.Eventually(t, func() bool {
		return mini.CurrentConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRunRejectsBadConfig(t *testing.T) {
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{})
	assert.Equal(t, 1, code)
}
