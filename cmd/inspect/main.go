// Command inspect prints recent archive run reports from a data
// directory, for debugging a deployment without going through the HTTP
// API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"logvault/pkg/logger"
	"logvault/pkg/runlog"
	"logvault/pkg/state"
)

func main() {
	var dataPath string
	var limit int
	var asJSON bool
	flag.StringVar(&dataPath, "data", "", "data directory of the logvault instance")
	flag.IntVar(&limit, "limit", 20, "max runs to print")
	flag.BoolVar(&asJSON, "json", false, "print raw report JSON")
	flag.Parse()
	if dataPath == "" {
		fmt.Fprintln(os.Stderr, "--data required")
		os.Exit(2)
	}
	logger.Init()

	paths := state.Layout(dataPath)
	if err := runlog.Open(paths.Runlog); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open run history at %s: %v\n", paths.Runlog, err)
		os.Exit(1)
	}
	defer runlog.Close()

	runs, err := runlog.List(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	for _, r := range runs {
		if asJSON {
			b, _ := json.Marshal(r)
			fmt.Println(string(b))
			continue
		}
		fmt.Printf("%s  started=%s success=%v fetched=%d groups=%d\n",
			r.ID, r.StartedAt, r.Success, r.Fetched, len(r.Results))
		for _, g := range r.Results {
			line := fmt.Sprintf("  %s  %d/%d deleted  %s", g.File, g.DeletedCount, g.Count, g.Status)
			if g.Error != "" {
				line += "  error: " + g.Error
			}
			fmt.Println(line)
		}
	}
}
