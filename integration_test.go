//go:build integration

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into a temporary directory
func buildBinary(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "imgsrc_test")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// fakeRoot serves the root API host
func fakeRoot(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cli/info.php":
			if r.URL.Query().Get("login") != "alice" {
				_, _ = w.Write([]byte(`<info proto="0.8"><status>FAIL</status><error>bad login</error></info>`))
				return
			}
			_, _ = w.Write([]byte(`<info proto="0.8"><status>OK</status><store>3</store><albums><album id="42"><name>Trip</name><photos>5</photos><modified>2024-01-01</modified></album></albums></info>`))
		case "/cli/cats.php":
			_, _ = w.Write([]byte(`<info proto="0.8"><status>OK</status><categories><category id="7"><name>Travel</name><parent_id>0</parent_id></category></categories></info>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

// runCLI runs the binary with an isolated home directory
func runCLI(t *testing.T, bin, rootHost, username string, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"IMGSRC_USERNAME="+username,
		"IMGSRC_PASSWORD_MD5=5f4dcc3b5aa765d61d8327deb882cf99",
		"IMGSRC_ROOT_HOST="+rootHost,
		"IMGSRC_CACHE_DIR="+filepath.Join(home, "cache"),
		"IMGSRC_DATA_DIR="+filepath.Join(home, "data"),
	)

	out, err := cmd.CombinedOutput()
	return string(out), err
}

// TestAlbumsCommand tests the "albums" command
func TestAlbumsCommand(t *testing.T) {
	bin := buildBinary(t)
	server := fakeRoot(t)
	host := strings.TrimPrefix(server.URL, "http://")

	out, err := runCLI(t, bin, host, "alice", "albums")
	if err != nil {
		t.Fatalf("albums failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Trip") || !strings.Contains(out, "42") {
		t.Errorf("expected album listing, got:\n%s", out)
	}
}

// TestAlbumsCommand_LoginFailure tests the exit status on a rejected login
func TestAlbumsCommand_LoginFailure(t *testing.T) {
	bin := buildBinary(t)
	server := fakeRoot(t)
	host := strings.TrimPrefix(server.URL, "http://")

	out, err := runCLI(t, bin, host, "mallory", "albums")
	if err == nil {
		t.Fatalf("expected failure, got:\n%s", out)
	}
	if !strings.Contains(out, "bad login") {
		t.Errorf("expected server message in output, got:\n%s", out)
	}
}

// TestCategoriesCommand tests the "categories" command
func TestCategoriesCommand(t *testing.T) {
	bin := buildBinary(t)
	server := fakeRoot(t)
	host := strings.TrimPrefix(server.URL, "http://")

	out, err := runCLI(t, bin, host, "alice", "categories")
	if err != nil {
		t.Fatalf("categories failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Travel") {
		t.Errorf("expected category listing, got:\n%s", out)
	}
}

// TestHistoryCommand_Empty tests the "history" command on a fresh journal
func TestHistoryCommand_Empty(t *testing.T) {
	bin := buildBinary(t)

	out, err := runCLI(t, bin, "127.0.0.1:1", "alice", "history")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No uploads recorded.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
