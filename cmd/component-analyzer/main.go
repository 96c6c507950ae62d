package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/a3tai/component-analyzer/internal/analyzer"
	"github.com/a3tai/component-analyzer/internal/config"
	"github.com/a3tai/component-analyzer/internal/extract"
	"github.com/a3tai/component-analyzer/internal/mcp"
	"github.com/a3tai/component-analyzer/internal/ocr"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// newAnalyzer wires the extraction chain used by both modes.
func newAnalyzer(cfg *config.Config) *analyzer.Analyzer {
	extractor := extract.NewDefault(
		ocr.NewRasterizer(cfg.DPI),
		func() (extract.Recognizer, error) {
			engine, err := ocr.NewEngine(cfg.OCRLanguage)
			if err != nil {
				return nil, err
			}
			return engine, nil
		},
	)
	return analyzer.New(extractor)
}

// runCLIMode performs a single analysis and reports it on stdout
func runCLIMode(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer) int {
	prefixes, usedDefault, err := cfg.PrefixSet()
	if err != nil {
		log.Printf("Invalid prefixes: %v", err)
		return 1
	}
	if usedDefault {
		log.Printf("Warning: no valid prefixes provided. Using default prefixes: %s",
			strings.Join(config.DefaultPrefixes, ","))
	}

	result, err := a.Run(ctx, analyzer.Options{
		SpreadsheetPath: cfg.SpreadsheetPath,
		DocumentPath:    cfg.DocumentPath,
		Columns:         cfg.Columns,
		Prefixes:        prefixes,
		OutputDir:       cfg.OutputDir,
		MaxFileSize:     cfg.MaxFileSize,
	})
	if err != nil {
		log.Printf("Analysis failed: %v", err)
		return 1
	}

	printResult(os.Stdout, result)
	return 0
}

// printResult writes the condition counts and output locations
func printResult(w io.Writer, result *analyzer.Result) {
	fmt.Fprintln(w, "Analysis Summary:")
	fmt.Fprint(w, result.Summary())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Modified Excel file saved as: %s\n", result.Outputs.ModifiedSpreadsheet)
	fmt.Fprintf(w, "Combined PDF saved as: %s\n", result.Outputs.AnnotatedDocument)
	fmt.Fprintf(w, "Detailed report saved as: %s\n", result.Outputs.Report)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// runStdioMode serves MCP until the parent process closes stdin
func runStdioMode(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer) int {
	server, err := mcp.NewServer(cfg, a)
	if err != nil {
		log.Printf("Failed to create MCP server: %v", err)
		return 1
	}
	if err := server.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	a := newAnalyzer(cfg)

	var code int
	if cfg.IsStdioMode() {
		code = runStdioMode(ctx, cfg, a)
	} else {
		code = runCLIMode(ctx, cfg, a)
	}
	stop()
	os.Exit(code)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Component Analyzer\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
