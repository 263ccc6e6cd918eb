package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: 127.0.0.1
  port: 9090
storage:
  data_path: /var/lib/logvault
archive:
  enabled: true
  cron: "30 3 * * *"
  fetch_limit: 250
  run_timeout: 2m
  blob:
    backend: s3
    bucket: archives
    region: us-east-1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", cfg.Addr())
	}
	if cfg.Storage.DataPath != "/var/lib/logvault" {
		t.Fatalf("unexpected data path: %s", cfg.Storage.DataPath)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Cron != "30 3 * * *" {
		t.Fatalf("unexpected archive config: %+v", cfg.Archive)
	}
	if cfg.Archive.FetchLimit != 250 {
		t.Fatalf("unexpected fetch limit: %d", cfg.Archive.FetchLimit)
	}
	if cfg.Archive.RunTimeout.Duration() != 2*time.Minute {
		t.Fatalf("unexpected run timeout: %v", cfg.Archive.RunTimeout.Duration())
	}
	if cfg.Archive.Blob.Bucket != "archives" {
		t.Fatalf("unexpected bucket: %s", cfg.Archive.Blob.Bucket)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var out struct {
		Timeout Duration `yaml:"timeout"`
	}
	if err := yaml.Unmarshal([]byte("timeout: 90s"), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Timeout.Duration() != 90*time.Second {
		t.Fatalf("unexpected duration: %v", out.Timeout.Duration())
	}

	// plain numbers are seconds
	if err := yaml.Unmarshal([]byte("timeout: 45"), &out); err != nil {
		t.Fatalf("unmarshal numeric: %v", err)
	}
	if out.Timeout.Duration() != 45*time.Second {
		t.Fatalf("unexpected numeric duration: %v", out.Timeout.Duration())
	}

	if err := yaml.Unmarshal([]byte("timeout: soon"), &out); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestArchiveDefaults(t *testing.T) {
	var a ArchiveConfig
	if a.CronOrDefault() != DefaultCron {
		t.Fatalf("unexpected cron default: %s", a.CronOrDefault())
	}
	if a.FetchLimitOrDefault() != 500 {
		t.Fatalf("unexpected fetch limit default: %d", a.FetchLimitOrDefault())
	}
	if a.DeleteBatchSizeOrDefault() != 100 {
		t.Fatalf("unexpected delete batch default: %d", a.DeleteBatchSizeOrDefault())
	}
	if a.WorkersOrDefault() != 4 {
		t.Fatalf("unexpected workers default: %d", a.WorkersOrDefault())
	}
	if a.RunTimeoutOrDefault() != 5*time.Minute {
		t.Fatalf("unexpected timeout default: %v", a.RunTimeoutOrDefault())
	}
}

func TestEffectiveConfigPrecedence(t *testing.T) {
	fileCfg := &Config{}
	fileCfg.Server.Address = "10.0.0.1"
	fileCfg.Server.Port = 7000
	fileCfg.Storage.DataPath = "/from/file"

	envCfg := &Config{}
	envCfg.Storage.DataPath = "/from/env"

	// a present config file wins over env when no flags are set
	eff, err := LoadEffectiveConfig(Flags{Set: map[string]bool{}}, fileCfg, true, envCfg)
	if err != nil {
		t.Fatalf("load effective: %v", err)
	}
	if eff.Source != "config" || eff.DataPath != "/from/file" {
		t.Fatalf("unexpected result: %+v", eff)
	}

	// explicit flags win over both
	flags := Flags{Addr: ":9999", Data: "/from/flags", Set: map[string]bool{"addr": true, "data": true}}
	eff, err = LoadEffectiveConfig(flags, fileCfg, true, envCfg)
	if err != nil {
		t.Fatalf("load effective: %v", err)
	}
	if eff.Source != "flags" || eff.DataPath != "/from/flags" || eff.Addr != ":9999" {
		t.Fatalf("unexpected result: %+v", eff)
	}

	// env is the fallback when no flags and no file
	eff, err = LoadEffectiveConfig(Flags{Data: "./.data", Set: map[string]bool{}}, &Config{}, false, envCfg)
	if err != nil {
		t.Fatalf("load effective: %v", err)
	}
	if eff.Source != "env" || eff.DataPath != "/from/env" {
		t.Fatalf("unexpected result: %+v", eff)
	}

	// explicit --config pointing at a missing file is fatal
	_, err = LoadEffectiveConfig(Flags{Config: "/nope.yaml", Set: map[string]bool{"config": true}}, &Config{}, false, envCfg)
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
