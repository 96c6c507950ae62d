package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/component-analyzer/internal/component"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOCRLanguage = "eng"
	DefaultDPI         = 300.0
	DefaultOutputDir   = "output"

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "COMPONENT_ANALYZER"
)

// DefaultPrefixes is the documented prefix list used when none is configured.
var DefaultPrefixes = []string{
	"C", "R", "D", "Q", "U", "L", "Z", "FB", "SWITCH", "MOV",
	"LED", "TVS", "ESD", "XT", "OPD", "OPQ", "LCD", "CN",
}

// Config holds all configuration for the component analyzer
type Config struct {
	Mode string // "cli" or "stdio"

	// Run inputs (cli mode)
	SpreadsheetPath string
	DocumentPath    string
	Columns         []string
	PrefixInput     string
	OutputDir       string

	// Directory MCP requests are confined to (stdio mode)
	Directory string

	// Extraction
	OCRLanguage string
	DPI         float64

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:        ModeCLI,
		OutputDir:   DefaultOutputDir,
		Directory:   currentDir,
		OCRLanguage: DefaultOCRLanguage,
		DPI:         DefaultDPI,
		Version:     "1.0.0",
		ServerName:  "component-analyzer",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("excel", cfg.SpreadsheetPath)
	viper.SetDefault("pdf", cfg.DocumentPath)
	viper.SetDefault("columns", "")
	viper.SetDefault("prefixes", cfg.PrefixInput)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocr-lang", cfg.OCRLanguage)
	viper.SetDefault("dpi", cfg.DPI)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' for a single analysis, 'stdio' for an MCP server on standard I/O")
	pflag.String("excel", cfg.SpreadsheetPath, "Spreadsheet (.xlsx) listing the components (cli mode)")
	pflag.String("pdf", cfg.DocumentPath, "Schematic document (.pdf) to check (cli mode)")
	pflag.String("columns", "", "Comma-separated spreadsheet columns holding component identifiers (cli mode)")
	pflag.String("prefixes", cfg.PrefixInput, "Comma-separated component prefixes (default: "+strings.Join(DefaultPrefixes, ",")+")")
	pflag.String("outdir", cfg.OutputDir, "Directory the outputs are written to (cli mode)")
	pflag.String("dir", cfg.Directory, "Directory MCP requests may read from and write to (stdio mode)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("ocr-lang", cfg.OCRLanguage, "Tesseract language for the OCR fallback")
	pflag.Float64("dpi", cfg.DPI, "Rendering resolution for the OCR fallback")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "excel", "pdf", "columns", "prefixes", "outdir",
		"dir", "loglevel", "maxfilesize", "ocr-lang", "dpi",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nComponent Analyzer - reconcile spreadsheet component lists with schematic PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --excel=bom.xlsx --pdf=board.pdf --columns=Designators\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --excel=bom.xlsx --pdf=board.pdf --columns=Refs --prefixes=R,C,U --outdir=out\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/projects       # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE, %s_EXCEL, %s_PDF, %s_COLUMNS, %s_PREFIXES,\n",
			EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OUTDIR, %s_DIR, %s_LOGLEVEL, %s_MAXFILESIZE, %s_OCR_LANG, %s_DPI\n",
			EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.SpreadsheetPath = viper.GetString("excel")
	cfg.DocumentPath = viper.GetString("pdf")
	cfg.Columns = SplitList(viper.GetString("columns"))
	cfg.PrefixInput = viper.GetString("prefixes")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.Directory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCRLanguage = viper.GetString("ocr-lang")
	cfg.DPI = viper.GetFloat64("dpi")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI {
		if c.SpreadsheetPath == "" || c.DocumentPath == "" {
			return errors.New("--excel and --pdf are required in cli mode")
		}
		if len(c.Columns) == 0 {
			return errors.New("--columns is required in cli mode")
		}
		if c.OutputDir == "" {
			return errors.New("output directory cannot be empty")
		}
	}

	if c.Mode == ModeStdio {
		if c.Directory == "" {
			return errors.New("directory cannot be empty")
		}
		info, err := os.Stat(c.Directory)
		if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", c.Directory)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.DPI <= 0 {
		return errors.New("DPI must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// PrefixSet builds the configured prefix set. The boolean is true when the
// input held no usable prefix and DefaultPrefixes was substituted.
func (c *Config) PrefixSet() (*component.PrefixSet, bool, error) {
	prefixes, usedDefault := ParsePrefixes(c.PrefixInput)
	set, err := component.NewPrefixSet(prefixes)
	return set, usedDefault, err
}

// ParsePrefixes splits input on commas, trims and upper-cases every entry
// and drops entries that are empty or not purely alphabetic. When nothing
// remains DefaultPrefixes is returned with usedDefault set, except for an
// entirely blank input, which selects the defaults silently.
func ParsePrefixes(input string) (prefixes []string, usedDefault bool) {
	for _, p := range SplitList(input) {
		p = strings.ToUpper(p)
		if isAlpha(p) {
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) > 0 {
		return prefixes, false
	}

	defaults := append([]string(nil), DefaultPrefixes...)
	return defaults, strings.TrimSpace(input) != ""
}

// SplitList splits a comma-separated value, trimming entries and dropping
// empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Excel: %s, PDF: %s, Columns: %v, Prefixes: %q, OutputDir: %s, "+
		"Directory: %s, LogLevel: %s, MaxFileSize: %d, OCRLanguage: %s, DPI: %g}",
		c.Mode, c.SpreadsheetPath, c.DocumentPath, c.Columns, c.PrefixInput, c.OutputDir,
		c.Directory, c.LogLevel, c.MaxFileSize, c.OCRLanguage, c.DPI)
}

// IsCLIMode returns true for a single analysis run from flags
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
