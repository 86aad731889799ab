package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/sanae-abe/cli-testing-specialist/internal/analyzer"
	"github.com/sanae-abe/cli-testing-specialist/internal/config"
	"github.com/sanae-abe/cli-testing-specialist/internal/logger"
	"github.com/sanae-abe/cli-testing-specialist/internal/parallel"
	"github.com/sanae-abe/cli-testing-specialist/internal/sandbox"
	"github.com/sanae-abe/cli-testing-specialist/internal/types"
)

// Version is set at build time via ldflags: -X main.Version=x.y.z
var Version = "1.0.0"

var log = logger.New("main")

// numTestCategories is how many test categories downstream generation
// splits an analysis into (basic, boundary, security, path handling).
const numTestCategories = 4

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "analyze":
			runAnalyze(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			return
		case "version", "-v", "--version":
			fmt.Printf("cli-specialist version %s\n", Version)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	printUsage()
}

// runAnalyze handles the analyze subcommand
func runAnalyze(args []string) {
	analyzeFlags := flag.NewFlagSet("analyze", flag.ExitOnError)
	output := analyzeFlags.String("output", "", "Write the analysis JSON to a file instead of stdout")
	maxDepth := analyzeFlags.Int("max-depth", 0, "Subcommand recursion depth (default from config)")
	timeout := analyzeFlags.Duration("timeout", 0, "Per-probe timeout, e.g. 30s (default from config)")
	configPath := analyzeFlags.String("config", config.DefaultConfigFilename, "Path to configuration file")
	logLevel := analyzeFlags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	noColor := analyzeFlags.Bool("no-color", false, "Disable colored log output")
	pretty := analyzeFlags.Bool("pretty", false, "Indent the JSON output")
	_ = analyzeFlags.Parse(args)

	if analyzeFlags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cli-specialist analyze [flags] <binary>")
		os.Exit(2)
	}
	target := analyzeFlags.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *maxDepth != 0 {
		cfg.Analyzer.MaxDepth = *maxDepth
	}
	if *timeout != 0 {
		cfg.Limits.TimeoutSeconds = int(timeout.Seconds())
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v", err)
		os.Exit(1)
	}

	setupLogging(cfg, *noColor)

	limits, err := sandbox.LimitsFromEnv(cfg.Limits.ToLimits())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid limit overrides: %v\n", err)
		os.Exit(1)
	}

	tables, err := config.LoadTables(cfg.Analyzer.TablesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load inference tables: %v\n", err)
		os.Exit(1)
	}

	a, err := analyzer.New(analyzer.Options{
		Limits:             limits,
		MaxDepth:           cfg.Analyzer.MaxDepth,
		Tables:             tables,
		NoArgsProbeTimeout: time.Duration(cfg.Analyzer.NoArgsProbeTimeoutMS) * time.Millisecond,
		Version:            Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	analysis, err := a.Analyze(target)
	if err != nil {
		var aerr *analyzer.Error
		if errors.As(err, &aerr) {
			fmt.Fprintln(os.Stderr, aerr.UserMessage())
		} else {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		}
		os.Exit(1)
	}

	// Advisory for downstream test generation; the analysis itself is
	// strictly sequential either way.
	log.Info("suggested test generation strategy: %s", generationStrategy(analysis))

	if err := writeAnalysis(analysis, *output, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write analysis: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config, noColorFlag bool) {
	if level, err := logger.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetGlobalLevel(level)
	}
	noColor := noColorFlag || cfg.Log.NoColor
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		noColor = true
	}
	logger.SetColored(!noColor)
}

// generationStrategy recommends a fan-out strategy for generating
// tests from the finished analysis.
func generationStrategy(analysis *types.CliAnalysis) parallel.Strategy {
	return parallel.Choose(parallel.NewWorkload(analysis, numTestCategories))
}

func writeAnalysis(analysis any, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(analysis, "", "  ")
	} else {
		data, err = json.Marshal(analysis)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printUsage() {
	fmt.Println(`cli-specialist - Structural analyzer for command-line binaries

Usage:
  cli-specialist analyze [flags] <binary>   Analyze a binary and emit JSON
  cli-specialist help                       Show this help message
  cli-specialist version                    Show version

Analyze Flags:
  --output string      Write the analysis JSON to a file instead of stdout
  --max-depth int      Subcommand recursion depth (default from config)
  --timeout duration   Per-probe timeout, e.g. 30s (default from config)
  --config string      Path to configuration file (default ".cli-specialist.yml")
  --log-level string   Log level: trace, debug, info, warn, error
  --no-color           Disable colored log output
  --pretty             Indent the JSON output

Environment Variables:
  CLI_SPECIALIST_MAX_MEMORY_BYTES       Memory ceiling for probed binaries
  CLI_SPECIALIST_MAX_FILE_DESCRIPTORS   FD ceiling for probed binaries
  CLI_SPECIALIST_MAX_PROCESSES          Process ceiling for probed binaries
  CLI_SPECIALIST_TIMEOUT_SECONDS        Per-probe timeout override

Examples:
  cli-specialist analyze /usr/bin/git --pretty
  cli-specialist analyze ./mytool --max-depth 2 --output analysis.json`)
}
