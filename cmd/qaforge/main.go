// ABOUTME: CLI entrypoint for qaforge with analyze, one-shot run, and server modes.
// ABOUTME: Wires together the analyzer, run orchestrator, event broker, and HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/2389-research/qaforge/analyzer"
	"github.com/2389-research/qaforge/runner"
	"github.com/2389-research/qaforge/server"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	serverMode  bool
	port        int
	dataDir     string
	analyzeOnly bool
	verbose     bool
	showVersion bool
	scriptFile  string
}

func main() {
	_ = server.LoadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("qaforge %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("qaforge", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP server mode")
	fs.IntVar(&cfg.port, "port", 0, "Server port (overrides QAFORGE_BIND port)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Directory for run artifacts (default: data)")
	fs.BoolVar(&cfg.analyzeOnly, "analyze", false, "Print analysis JSON without running the pipeline")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Print per-stage progress events")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.scriptFile = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.serverMode {
		return runServer(cfg)
	}

	if cfg.scriptFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	if cfg.analyzeOnly {
		return analyzeScript(cfg)
	}

	return runPipeline(cfg)
}

// analyzeScript prints the analysis of a script file as JSON.
func analyzeScript(cfg config) int {
	code, err := os.ReadFile(cfg.scriptFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	result := analyzer.Analyze(string(code), filepath.Base(cfg.scriptFile))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

// stderrPublisher prints progress events for -verbose one-shot runs.
type stderrPublisher struct{}

func (stderrPublisher) Publish(runID string, ev runner.Event) {
	if ev.Stage != "" {
		fmt.Fprintf(os.Stderr, "[%s] %s %s: %s\n", runID, ev.Type, ev.Stage, ev.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", runID, ev.Type, ev.Message)
}

// runPipeline runs the full pipeline once for a script file and prints the
// produced artifacts.
func runPipeline(cfg config) int {
	code, err := os.ReadFile(cfg.scriptFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	dataDir := cfg.dataDir
	if dataDir == "" {
		dataDir = "data"
	}

	runCfg := runner.Config{DataDir: dataDir}
	if cfg.verbose {
		runCfg.Publisher = stderrPublisher{}
	}
	r := runner.New(runCfg)

	runID := runner.NewRunID()
	if err := r.Start(runID, string(code), filepath.Base(cfg.scriptFile)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Set up signal handling for cooperative cancellation.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling run...")
		r.Cancel(runID)
	}()

	var snap *runner.RunState
	for {
		var ok bool
		snap, ok = r.Get(runID)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: run %s disappeared\n", runID)
			return 1
		}
		if snap.Status.Terminal() {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}

	if snap.Status == runner.StatusFailed {
		fmt.Fprintf(os.Stderr, "error: run failed: %v\n", snap.Errors)
		return 1
	}

	fmt.Printf("Run %s completed.\n", runID)
	if len(snap.Errors) > 0 {
		fmt.Printf("Stage errors: %v\n", snap.Errors)
	}
	names := make([]string, 0, len(snap.Artifacts))
	for name := range snap.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Artifacts:")
	for _, name := range names {
		fmt.Printf("  %s\t%s\n", name, snap.Artifacts[name])
	}
	return 0
}

// runServer starts the HTTP API server and blocks until shutdown.
func runServer(cfg config) int {
	srvCfg, err := server.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if cfg.dataDir != "" {
		srvCfg.DataDir = cfg.dataDir
	}
	if cfg.port > 0 {
		srvCfg.Bind = fmt.Sprintf("127.0.0.1:%d", cfg.port)
		if srvCfg.AllowRemote {
			srvCfg.Bind = fmt.Sprintf("0.0.0.0:%d", cfg.port)
		}
	}
	if err := os.MkdirAll(srvCfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: creating data directory: %v\n", err)
		return 1
	}

	s, err := server.NewServer(srvCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = s.Close() }()

	httpSrv := &http.Server{Addr: s.Addr(), Handler: s}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(ctx)
	}()

	fmt.Printf("qaforge %s listening on http://%s (data dir: %s)\n", version, s.Addr(), srvCfg.DataDir)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
