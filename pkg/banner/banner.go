package banner

import (
	"fmt"

	"logvault/pkg/config"
)

const banner = `
██╗      ██████╗  ██████╗ ██╗   ██╗ █████╗ ██╗   ██╗██╗  ████████╗
██║     ██╔═══██╗██╔════╝ ██║   ██║██╔══██╗██║   ██║██║  ╚══██╔══╝
██║     ██║   ██║██║  ███╗██║   ██║███████║██║   ██║██║     ██║
██║     ██║   ██║██║   ██║╚██╗ ██╔╝██╔══██║██║   ██║██║     ██║
███████╗╚██████╔╝╚██████╔╝ ╚████╔╝ ██║  ██║╚██████╔╝███████╗██║
╚══════╝ ╚═════╝  ╚═════╝   ╚═══╝  ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", addr)
	fmt.Printf("Data Path: %s\n", eff.DataPath)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Printf("Config:    %s\n", src)
	if eff.Config != nil {
		arch := eff.Config.Archive
		if arch.Enabled {
			fmt.Printf("Schedule:  %s\n", arch.CronOrDefault())
		} else {
			fmt.Println("Schedule:  disabled (trigger via POST /v1/archive/run)")
		}
		backend := arch.Blob.Backend
		if backend == "" {
			backend = "s3"
		}
		fmt.Printf("Archives:  %s\n", backend)
	}

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/archive/run  - Trigger an archival run")
	fmt.Println("GET  /v1/archive/runs - List recent run reports")
	fmt.Println("POST /v1/logs         - Ingest a log record")
	fmt.Println("GET  /v1/logs         - List logs awaiting archival")
	fmt.Println("GET  /metrics         - Prometheus metrics")
	fmt.Println("GET  /docs/           - API documentation")

	fmt.Println("\n== Examples ===================================================")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/logs' -d '{\"userId\":\"u1\",\"message\":\"hello\"}'")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/archive/run'")
}
