package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
max_files: 4
cloudflare:
  account_id: acct
  api_token: tok
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.MaxFiles != 4 {
		t.Errorf("max_files = %d", cfg.MaxFiles)
	}
	// Defaults survive where the file is silent.
	if cfg.MaxFileMB != 10 {
		t.Errorf("max_file_mb = %d", cfg.MaxFileMB)
	}
	if cfg.Cloudflare.Model != "@cf/meta/llama-3.1-8b-instruct" {
		t.Errorf("model = %q", cfg.Cloudflare.Model)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
cloudflare:
  account_id: from-file
  api_token: tok
`)
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "from-env")
	t.Setenv("CLOUDFLARE_MODEL", "@cf/other/model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cloudflare.AccountID != "from-env" {
		t.Errorf("account_id = %q, want env value", cfg.Cloudflare.AccountID)
	}
	if cfg.Cloudflare.Model != "@cf/other/model" {
		t.Errorf("model = %q", cfg.Cloudflare.Model)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when credentials are absent")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cloudflare.AccountID = "a"
	cfg.Cloudflare.APIToken = "t"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.MaxFiles = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("max_files = 0 accepted")
	}
}

func TestSizeHelpers(t *testing.T) {
	cfg := Default()
	if got := cfg.MaxFileBytes(); got != 10<<20 {
		t.Errorf("MaxFileBytes = %d", got)
	}
	if got := cfg.RequestBodyLimit(); got != 2*(10<<20)+1<<20 {
		t.Errorf("RequestBodyLimit = %d", got)
	}
}
