package actions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEnvFrom(t *testing.T) {
	e, err := ParseEnvFrom(map[string]string{
		"GITHUB_TOKEN":      "ghs_abc",
		"GITHUB_REPOSITORY": "casbin/casbin",
		"GITHUB_WORKSPACE":  "/home/runner/work/casbin/casbin",
		"GITHUB_RUN_ID":     "123456",
		"GITHUB_EVENT_NAME": "workflow_run",
		"GITHUB_OUTPUT":     "/tmp/out",
	})
	if err != nil {
		t.Fatalf("ParseEnvFrom: %v", err)
	}

	if e.AuthToken() != "ghs_abc" {
		t.Errorf("AuthToken() = %q", e.AuthToken())
	}
	if e.Repository != "casbin/casbin" || e.RunID != 123456 || e.EventName != "workflow_run" {
		t.Errorf("env = %+v", e)
	}
	if e.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want default %q", e.APIURL, DefaultAPIURL)
	}
	if e.IsEnterprise() {
		t.Error("IsEnterprise() = true for github.com")
	}
}

func TestParseEnvFrom_InvalidRunID(t *testing.T) {
	if _, err := ParseEnvFrom(map[string]string{"GITHUB_RUN_ID": "not-a-number"}); err == nil {
		t.Error("expected error for non-numeric GITHUB_RUN_ID")
	}
}

func TestEnv_AuthTokenFallback(t *testing.T) {
	e := Env{GHToken: " gho_xyz "}
	if got := e.AuthToken(); got != "gho_xyz" {
		t.Errorf("AuthToken() = %q, want %q", got, "gho_xyz")
	}
}

func TestEnv_IsEnterprise(t *testing.T) {
	tests := map[string]bool{
		"https://api.github.com":          false,
		"https://api.github.com/":         false,
		"https://ghe.example.com/api/v3":  true,
		"https://ghe.example.com/api/v3/": true,
	}
	for url, want := range tests {
		if got := (Env{APIURL: url}).IsEnterprise(); got != want {
			t.Errorf("IsEnterprise(%q) = %v, want %v", url, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BENCHBOT_TEST_DOTENV_NEW=from-file\nBENCHBOT_TEST_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BENCHBOT_TEST_DOTENV_SET", "from-env")
	// Registered for cleanup; LoadDotEnv sets it for real.
	t.Setenv("BENCHBOT_TEST_DOTENV_NEW", "")
	os.Unsetenv("BENCHBOT_TEST_DOTENV_NEW")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BENCHBOT_TEST_DOTENV_NEW"); got != "from-file" {
		t.Errorf("NEW = %q, want from-file", got)
	}
	if got := os.Getenv("BENCHBOT_TEST_DOTENV_SET"); got != "from-env" {
		t.Errorf("SET = %q, want from-env (must not override)", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}
