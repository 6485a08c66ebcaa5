package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the .env lookup at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	prev := dotEnvPath
	dotEnvPath = filepath.Join(t.TempDir(), ".env")
	t.Cleanup(func() { dotEnvPath = prev })
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != defaultHost || cfg.Port != defaultPort {
		t.Fatalf("Host/Port = %q/%d, want %q/%d", cfg.Host, cfg.Port, defaultHost, defaultPort)
	}
	if cfg.ProxyHost != "" || cfg.ProxyPort != defaultProxyPort {
		t.Fatalf("proxy = %q:%d, want none on default port", cfg.ProxyHost, cfg.ProxyPort)
	}
	if cfg.PollSeconds != defaultPollSeconds || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("PollSeconds/LogLevel = %d/%q, want defaults", cfg.PollSeconds, cfg.LogLevel)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.HasCredentials() {
		t.Fatalf("HasCredentials = true, want false")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
host = "  scale.example.com  "
port = 8080
proxy_host = " proxy.local "
proxy_port = 3128
user_id = 29
public_key = " b71d7e2ce8c8e4a3 "
poll_seconds = 30
log_level = "DEBUG"
log_dir = "  ~/.bodyscale/logs  "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "scale.example.com" || cfg.Port != 8080 {
		t.Fatalf("Host/Port = %q/%d, want scale.example.com/8080", cfg.Host, cfg.Port)
	}
	if cfg.ProxyHost != "proxy.local" || cfg.ProxyPort != 3128 {
		t.Fatalf("proxy = %q:%d, want proxy.local:3128", cfg.ProxyHost, cfg.ProxyPort)
	}
	if cfg.UserID != 29 || cfg.PublicKey != "b71d7e2ce8c8e4a3" || !cfg.HasCredentials() {
		t.Fatalf("credentials = %d/%q, want 29/b71d7e2ce8c8e4a3", cfg.UserID, cfg.PublicKey)
	}
	if cfg.PollSeconds != 30 || cfg.LogLevel != "debug" {
		t.Fatalf("PollSeconds/LogLevel = %d/%q, want 30/debug", cfg.PollSeconds, cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogPath() != filepath.Join(cfg.LogDir, "bodyscale.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
host = "file.example.com"
user_id = 1
public_key = "from-file"
`)
	t.Setenv("BODYSCALE_HOST", "env.example.com")
	t.Setenv("BODYSCALE_USER_ID", "42")
	t.Setenv("BODYSCALE_PROXY_HOST", "proxy.env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "env.example.com" || cfg.UserID != 42 || cfg.ProxyHost != "proxy.env" {
		t.Fatalf("cfg = %+v, want env overrides applied", cfg)
	}
	if cfg.PublicKey != "from-file" {
		t.Fatalf("PublicKey = %q, want value from file", cfg.PublicKey)
	}
}

func TestLoad_DotEnvSuppliesCredentials(t *testing.T) {
	isolate(t)
	writeFile(t, dotEnvPath, "BODYSCALE_PUBLIC_KEY=dotenv-key\nBODYSCALE_USER_ID=7\n")
	t.Cleanup(func() {
		os.Unsetenv("BODYSCALE_PUBLIC_KEY")
		os.Unsetenv("BODYSCALE_USER_ID")
	})

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PublicKey != "dotenv-key" || cfg.UserID != 7 {
		t.Fatalf("credentials = %d/%q, want 7/dotenv-key", cfg.UserID, cfg.PublicKey)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `host = [`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_InvalidEnvFails(t *testing.T) {
	isolate(t)
	t.Setenv("BODYSCALE_PORT", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("Load error = %v, want parse env error", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := cfg
	bad.Port = 70000
	if bad.Validate() == nil {
		t.Fatalf("Validate accepted port 70000")
	}
	bad = cfg
	bad.LogLevel = "loud"
	if bad.Validate() == nil {
		t.Fatalf("Validate accepted log level loud")
	}
}

func TestNormalize_AcceptsWarningAlias(t *testing.T) {
	cfg := defaults()
	cfg.LogLevel = " Warning "
	cfg.normalize()
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected warning alias: %v", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.FromSlash("/bodyscale.log")) {
		t.Fatalf("LogPath = %q, want bodyscale.log under HOME %q", got, home)
	}
}
