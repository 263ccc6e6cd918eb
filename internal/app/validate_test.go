package app

import (
	"strings"
	"testing"

	"logvault/pkg/config"
)

func baseEff() config.EffectiveConfigResult {
	cfg := &config.Config{}
	cfg.Archive.Blob.Backend = "fs"
	cfg.Archive.Blob.FSRoot = "/tmp/archives"
	return config.EffectiveConfigResult{Config: cfg, Addr: ":8080", DataPath: "/tmp/data"}
}

func TestValidateConfigOK(t *testing.T) {
	if err := validateConfig(baseEff()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigMissingDataPath(t *testing.T) {
	eff := baseEff()
	eff.DataPath = ""
	if err := validateConfig(eff); err == nil {
		t.Fatal("expected error for empty data path")
	}
}

func TestValidateConfigIncompleteTLS(t *testing.T) {
	eff := baseEff()
	eff.Config.Server.TLS.CertFile = "/tmp/cert.pem"
	err := validateConfig(eff)
	if err == nil || !strings.Contains(err.Error(), "TLS") {
		t.Fatalf("expected TLS pairing error, got %v", err)
	}
}

func TestValidateConfigBadCron(t *testing.T) {
	eff := baseEff()
	eff.Config.Archive.Enabled = true
	eff.Config.Archive.Cron = "not a cron"
	if err := validateConfig(eff); err == nil {
		t.Fatal("expected error for invalid cron")
	}
}

func TestValidateConfigBlobBackends(t *testing.T) {
	eff := baseEff()
	eff.Config.Archive.Blob = config.BlobConfig{Backend: "s3"}
	if err := validateConfig(eff); err == nil {
		t.Fatal("expected error for s3 backend without bucket")
	}

	eff.Config.Archive.Blob = config.BlobConfig{Backend: "fs"}
	if err := validateConfig(eff); err == nil {
		t.Fatal("expected error for fs backend without root")
	}

	eff.Config.Archive.Blob = config.BlobConfig{Backend: "tape"}
	if err := validateConfig(eff); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
