package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/workhive/workhive/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DatabasePath != "workhive.db" {
		t.Fatalf("DatabasePath = %q, want workhive.db", cfg.DatabasePath)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("APITimeout = %v, want 15s", cfg.APITimeout)
	}
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("TokenDuration = %v, want 1h", cfg.TokenDuration)
	}
	if cfg.Escrow.CustodyAccount != "escrow-custody" {
		t.Fatalf("CustodyAccount = %q, want escrow-custody", cfg.Escrow.CustodyAccount)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WORKHIVE_ADDR", ":9999")
	t.Setenv("WORKHIVE_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("WORKHIVE_ESCROW_ACCOUNT", "custody-x")
	t.Setenv("WORKHIVE_DEPLOYER_ACCOUNT", "acct-deployer")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Fatalf("DatabasePath = %q, want /tmp/other.db", cfg.DatabasePath)
	}
	if cfg.Escrow.CustodyAccount != "custody-x" {
		t.Fatalf("CustodyAccount = %q, want custody-x", cfg.Escrow.CustodyAccount)
	}
	if cfg.Escrow.DeployerAccount != "acct-deployer" {
		t.Fatalf("DeployerAccount = %q, want acct-deployer", cfg.Escrow.DeployerAccount)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
addr: ":7070"
jwt_secret: "file-secret"
database_path: "file.db"
escrow:
  custody_account: "custody-file"
  deployer_account: "acct-1"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.JWTSecret != "file-secret" || cfg.DatabasePath != "file.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Escrow.CustodyAccount != "custody-file" || cfg.Escrow.DeployerAccount != "acct-1" {
		t.Fatalf("escrow values not applied: %+v", cfg.Escrow)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("WORKHIVE_ENV", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject the default jwt secret")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("WORKHIVE_ENV", "development")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate in development: %v", err)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	t.Setenv("WORKHIVE_ENV", "development")

	cfg, _ := config.LoadConfig("")
	cfg.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty addr")
	}

	cfg, _ = config.LoadConfig("")
	cfg.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty database_path")
	}

	cfg, _ = config.LoadConfig("")
	cfg.Escrow.CustodyAccount = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty custody account")
	}
}
