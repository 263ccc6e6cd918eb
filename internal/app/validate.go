package app

import (
	"fmt"
	"os"

	"github.com/adhocore/gronx"

	"logvault/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.DataPath == "" {
		return fmt.Errorf("data path is empty: set --data flag, LOGVAULT_DATA_PATH env, or storage.data_path in config")
	}

	// TLS cert/key presence check if one is set
	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	arch := eff.Config.Archive
	if arch.Enabled && !gronx.IsValid(arch.CronOrDefault()) {
		return fmt.Errorf("invalid archive.cron expression: %q", arch.Cron)
	}

	switch arch.Blob.Backend {
	case "", "s3":
		if arch.Blob.Bucket == "" {
			return fmt.Errorf("archive.blob.bucket is required for the s3 backend")
		}
	case "fs":
		if arch.Blob.FSRoot == "" {
			return fmt.Errorf("archive.blob.fs_root is required for the fs backend")
		}
	default:
		return fmt.Errorf("unknown archive.blob.backend %q (expected s3 or fs)", arch.Blob.Backend)
	}

	return nil
}
