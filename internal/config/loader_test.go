package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rtmtail.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	t.Setenv("RTMTAIL_TEST_TOKEN", "xoxb-from-env")

	path := writeConfig(t, `
version: "1"
slack:
  token: ${RTMTAIL_TEST_TOKEN}
  snapshot: web
output:
  inflate: true
  inflate_fields: [user, channel, inviter]
stats:
  schedule: "${RTMTAIL_TEST_SCHEDULE:-@every 30s}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.Token != "xoxb-from-env" {
		t.Errorf("token = %q", cfg.Slack.Token)
	}
	if cfg.Slack.Snapshot != SnapshotWeb {
		t.Errorf("snapshot = %q", cfg.Slack.Snapshot)
	}
	if !cfg.Output.Inflate || len(cfg.Output.InflateFields) != 3 {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Stats.Schedule != "@every 30s" {
		t.Errorf("schedule = %q", cfg.Stats.Schedule)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level default = %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-override")
	t.Setenv("RTMTAIL_INFLATE", "true")
	t.Setenv("RTMTAIL_LOG_LEVEL", "debug")

	path := writeConfig(t, `
version: "1"
slack:
  token: xoxb-file
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.Token != "xoxb-override" {
		t.Errorf("token = %q", cfg.Slack.Token)
	}
	if !cfg.Output.Inflate {
		t.Error("inflate not set from environment")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-env-only")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != "1" || cfg.Slack.Snapshot != SnapshotRTM {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Slack.ReadLimit != DefaultReadLimit {
		t.Errorf("ReadLimit = %d, want %d", cfg.Slack.ReadLimit, DefaultReadLimit)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, "version: \"1\"\nslack:\n  token: ${RTMTAIL_TEST_UNSET_VAR}\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "RTMTAIL_TEST_UNSET_VAR") {
		t.Errorf("error = %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("RTMTAIL_TEST_SET", "value")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a: ${RTMTAIL_TEST_SET}", "a: value", false},
		{"a: ${RTMTAIL_TEST_SET:-other}", "a: value", false},
		{"a: ${RTMTAIL_TEST_NOPE:-fallback}", "a: fallback", false},
		{"a: ${RTMTAIL_TEST_NOPE:-}", "a: ", false},
		{"a: plain", "a: plain", false},
		{"a: ${RTMTAIL_TEST_NOPE}", "a: ${RTMTAIL_TEST_NOPE}", true},
	}
	for _, tt := range tests {
		got, err := expandEnv([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("expandEnv(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if string(got) != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
