// Command ilialign runs the in-line-inspection run alignment and
// anomaly-matching engine over a set of inspection runs and prints the
// resulting EngineResult as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/pipeline-ili/ilialign/internal/align"
	"github.com/pipeline-ili/ilialign/internal/fsutil"
	"github.com/pipeline-ili/ilialign/internal/monitoring"
	"github.com/pipeline-ili/ilialign/internal/security"
	"github.com/pipeline-ili/ilialign/internal/version"
)

type cliConfig struct {
	InputPath  string
	OutputPath string
	Verbose    bool
	PrintVer   bool

	ReferenceMatchGateFt    float64
	CandidateDistanceGateFt float64
	AcceptMinSimilarity     float64
	CriticalDepthPercent    float64
}

type inputDocument struct {
	Runs []align.RunInput `json:"runs"`
}

func main() {
	cfg := parseFlags()

	if cfg.PrintVer {
		fmt.Printf("ilialign %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if cfg.InputPath == "" {
		log.Fatal("input file is required (-input)")
	}

	if !cfg.Verbose {
		monitoring.SetLogger(nil)
	}

	if cfg.OutputPath != "" {
		if err := security.ValidateExportPath(cfg.OutputPath); err != nil {
			log.Fatalf("refusing to write output: %v", err)
		}
	}

	fs := fsutil.OSFileSystem{}

	runs, err := loadRuns(fs, cfg.InputPath)
	if err != nil {
		log.Fatalf("failed to load runs: %v", err)
	}

	engineCfg := buildEngineConfig(cfg)

	monitoring.Logf("running alignment engine over %d runs", len(runs))

	result, err := align.Run(runs, engineCfg)
	if err != nil {
		log.Fatalf("alignment failed: %v", err)
	}

	monitoring.Logf("produced %d chains across %d aligned anomalies",
		len(result.Chains), len(result.AlignedAnomalies))

	if err := writeResult(fs, result, cfg.OutputPath); err != nil {
		log.Fatalf("failed to write result: %v", err)
	}
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.InputPath, "input", "", `Path to a JSON document with a top-level "runs" array`)
	flag.StringVar(&cfg.OutputPath, "out", "", "Output JSON path (default: stdout)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&cfg.PrintVer, "version", false, "Print version information and exit")
	flag.Float64Var(&cfg.ReferenceMatchGateFt, "reference-gate-ft", 0, "Override reference-pair distance gate (0 = default)")
	flag.Float64Var(&cfg.CandidateDistanceGateFt, "candidate-gate-ft", 0, "Override bipartite candidate distance gate (0 = default)")
	flag.Float64Var(&cfg.AcceptMinSimilarity, "accept-min-similarity", 0, "Override minimum similarity to accept a match (0 = default)")
	flag.Float64Var(&cfg.CriticalDepthPercent, "critical-depth-pct", 0, "Override depth percent treated as critical (0 = default)")

	flag.Parse()

	return cfg
}

func buildEngineConfig(cfg cliConfig) align.EngineConfig {
	ec := align.DefaultEngineConfig()
	if cfg.ReferenceMatchGateFt > 0 {
		ec = ec.WithReferenceMatchGateFt(cfg.ReferenceMatchGateFt)
	}
	if cfg.CandidateDistanceGateFt > 0 {
		ec = ec.WithCandidateDistanceGateFt(cfg.CandidateDistanceGateFt)
	}
	if cfg.AcceptMinSimilarity > 0 {
		ec = ec.WithAcceptMinSimilarity(cfg.AcceptMinSimilarity)
	}
	if cfg.CriticalDepthPercent > 0 {
		ec = ec.WithCriticalDepthPercent(cfg.CriticalDepthPercent)
	}
	return ec
}

func loadRuns(fs fsutil.FileSystem, path string) ([]align.RunInput, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc inputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(doc.Runs) == 0 {
		return nil, fmt.Errorf("%s: no runs present", path)
	}
	return doc.Runs, nil
}

func writeResult(fs fsutil.FileSystem, result *align.EngineResult, outPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err := fmt.Println(string(data))
		return err
	}
	return fs.WriteFile(outPath, data, 0644)
}
