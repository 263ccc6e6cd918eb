package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	Data   string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult holds the result of LoadEffectiveConfig.
type EffectiveConfigResult struct {
	Config   *Config
	Addr     string
	DataPath string
	Source   string // "flags", "config", or "env"
}

// ParseConfigFlags parses command-line flags and returns them as a Flags struct.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dataPtr := flag.String("data", "./.data", "Data directory (log table, run history, state)")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, Data: *dataPtr, Config: *cfgPtr, Set: setFlags}
}

// ParseConfigFile resolves the config path and loads the YAML file. It
// returns the parsed config, a boolean indicating whether the file was
// present, and an error for fatal parsing problems.
func ParseConfigFile(flags Flags) (*Config, bool, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "not found") {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// ParseConfigEnvs reads LOGVAULT_* environment variables into a fresh
// Config and reports whether any were present. It does not mutate any
// caller-provided config.
func ParseConfigEnvs() (*Config, bool) {
	envCfg := &Config{}
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}
	parseBool := func(v string) bool {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}
		return false
	}

	// Server address/port
	if v := os.Getenv("LOGVAULT_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			envCfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				envCfg.Server.Port = pi
			}
		} else {
			envCfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("LOGVAULT_SERVER_ADDRESS"); host != "" {
			envUsed = true
			envCfg.Server.Address = host
		}
		if port := os.Getenv("LOGVAULT_SERVER_PORT"); port != "" {
			envUsed = true
			if pi, err := strconv.Atoi(port); err == nil {
				envCfg.Server.Port = pi
			}
		}
	}

	if v := os.Getenv("LOGVAULT_DATA_PATH"); v != "" {
		envUsed = true
		envCfg.Storage.DataPath = v
	}

	// Archive runner
	if v := os.Getenv("LOGVAULT_ARCHIVE_ENABLED"); v != "" {
		envUsed = true
		envCfg.Archive.Enabled = parseBool(v)
	}
	if v := os.Getenv("LOGVAULT_ARCHIVE_CRON"); v != "" {
		envUsed = true
		envCfg.Archive.Cron = v
	}
	if v := os.Getenv("LOGVAULT_ARCHIVE_FETCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			envCfg.Archive.FetchLimit = n
		}
	}
	if v := os.Getenv("LOGVAULT_ARCHIVE_DELETE_BATCH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			envCfg.Archive.DeleteBatchSize = n
		}
	}
	if v := os.Getenv("LOGVAULT_ARCHIVE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			envCfg.Archive.Workers = n
		}
	}

	// Blob backend
	if v := os.Getenv("LOGVAULT_BLOB_BACKEND"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.Backend = v
	}
	if v := os.Getenv("LOGVAULT_S3_BUCKET"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.Bucket = v
	}
	if v := os.Getenv("LOGVAULT_BLOB_PREFIX"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.Prefix = v
	}
	if v := os.Getenv("LOGVAULT_S3_ENDPOINT"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.Endpoint = v
	}
	if v := os.Getenv("LOGVAULT_S3_REGION"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.Region = v
	}
	if v := os.Getenv("LOGVAULT_S3_ACCESS_KEY"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.AccessKey = v
	}
	if v := os.Getenv("LOGVAULT_S3_SECRET_KEY"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.SecretKey = v
	}
	if v := os.Getenv("LOGVAULT_FS_ROOT"); v != "" {
		envUsed = true
		envCfg.Archive.Blob.FSRoot = v
	}

	// Ingest limits and CORS
	if v := os.Getenv("LOGVAULT_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			envCfg.Ingest.RateRPS = f
		}
	}
	if v := os.Getenv("LOGVAULT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			envCfg.Ingest.RateBurst = n
		}
	}
	if v := os.Getenv("LOGVAULT_CORS_ORIGINS"); v != "" {
		envUsed = true
		envCfg.Security.CORS.AllowedOrigins = parseList(v)
	}

	// TLS cert/key
	if c := os.Getenv("LOGVAULT_TLS_CERT"); c != "" {
		envUsed = true
		envCfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("LOGVAULT_TLS_KEY"); k != "" {
		envUsed = true
		envCfg.Server.TLS.KeyFile = k
	}

	if v := os.Getenv("LOGVAULT_LOG_LEVEL"); v != "" {
		envUsed = true
		envCfg.Logging.Level = v
	}

	return envCfg, envUsed
}

// LoadEffectiveConfig decides which single source to use (flags, config
// file, or env) and returns the effective config plus resolved addr and
// data path. An explicit --config requires the file to exist and uses it
// exclusively; explicit addr/data flags win next; otherwise a present
// config file wins over env.
func LoadEffectiveConfig(flags Flags, fileCfg *Config, fileExists bool, envCfg *Config) (EffectiveConfigResult, error) {
	var res EffectiveConfigResult

	if flags.Set["config"] {
		if !fileExists {
			return res, fmt.Errorf("config file %s not found", flags.Config)
		}
		res.Config = fileCfg
		res.Addr = fileCfg.Addr()
		res.DataPath = fileCfg.Storage.DataPath
		res.Source = "config"
		return res, nil
	}

	if flags.Set["addr"] || flags.Set["data"] {
		addr := flags.Addr
		if !flags.Set["addr"] {
			addr = envCfg.Addr()
			if addr == "" {
				addr = fileCfg.Addr()
			}
		}
		dataPath := flags.Data
		if !flags.Set["data"] {
			if p := strings.TrimSpace(envCfg.Storage.DataPath); p != "" {
				dataPath = p
			} else if p := strings.TrimSpace(fileCfg.Storage.DataPath); p != "" {
				dataPath = p
			}
		}
		out := fileCfg
		if out == nil {
			out = &Config{}
		}
		out.Server.Address = addr
		out.Server.Port = parsePortFromAddr(addr)
		out.Storage.DataPath = dataPath
		res.Config = out
		res.Addr = addr
		res.DataPath = dataPath
		res.Source = "flags"
		return res, nil
	}

	if fileExists {
		res.Config = fileCfg
		res.Addr = fileCfg.Addr()
		res.DataPath = fileCfg.Storage.DataPath
		res.Source = "config"
		return res, nil
	}

	res.Config = envCfg
	res.Addr = envCfg.Addr()
	res.DataPath = envCfg.Storage.DataPath
	if res.DataPath == "" {
		// no source provided a data path; fall back to the flag default
		res.DataPath = flags.Data
	}
	res.Source = "env"
	return res, nil
}

// parsePortFromAddr extracts the port integer from a host:port string.
func parsePortFromAddr(a string) int {
	if a == "" {
		return 0
	}
	if _, p, err := net.SplitHostPort(a); err == nil {
		if pi, err := strconv.Atoi(p); err == nil {
			return pi
		}
	}
	return 0
}
