package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/component-analyzer/internal/analyzer"
	"github.com/a3tai/component-analyzer/internal/config"
	"github.com/a3tai/component-analyzer/internal/spreadsheet"
)

// Tool names
const (
	ToolAnalyze     = "analyze_components"
	ToolListColumns = "list_columns"
)

// Runner executes one analysis.
type Runner interface {
	Run(ctx context.Context, opts analyzer.Options) (*analyzer.Result, error)
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	runner    Runner
	guard     *pathGuard
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, runner Runner) (*Server, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	guard, err := newPathGuard(cfg.Directory)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		runner:    runner,
		guard:     guard,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool(
		ToolAnalyze,
		mcp.WithDescription("Compare the component identifiers listed in a spreadsheet with those printed on a "+
			"schematic PDF. Writes a modified spreadsheet, a highlighted PDF with a summary page, and a detailed report."),
		mcp.WithString("excel_path",
			mcp.Required(),
			mcp.Description("Path to the .xlsx component list"),
		),
		mcp.WithString("pdf_path",
			mcp.Required(),
			mcp.Description("Path to the .pdf schematic"),
		),
		mcp.WithString("columns",
			mcp.Required(),
			mcp.Description("Comma-separated spreadsheet columns holding component identifiers"),
		),
		mcp.WithString("prefixes",
			mcp.Description("Comma-separated component prefixes (default: "+strings.Join(config.DefaultPrefixes, ",")+")"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the outputs (default: 'output' under the configured directory)"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyze)

	listColumnsTool := mcp.NewTool(
		ToolListColumns,
		mcp.WithDescription("List the header columns of the first sheet of a spreadsheet"),
		mcp.WithString("excel_path",
			mcp.Required(),
			mcp.Description("Path to the .xlsx file"),
		),
	)
	s.mcpServer.AddTool(listColumnsTool, s.handleListColumns)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	excelPath, err := request.RequireString("excel_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pdfPath, err := request.RequireString("pdf_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	columns, err := request.RequireString("columns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if excelPath, err = s.guard.resolve(excelPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pdfPath, err = s.guard.resolve(pdfPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputDir, err := s.guard.resolve(request.GetString("output_dir", filepath.Join(s.guard.root, config.DefaultOutputDir)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	runCfg := *s.config
	runCfg.PrefixInput = request.GetString("prefixes", "")
	prefixes, usedDefault, err := runCfg.PrefixSet()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := analyzer.Options{
		SpreadsheetPath: excelPath,
		DocumentPath:    pdfPath,
		Columns:         config.SplitList(columns),
		Prefixes:        prefixes,
		OutputDir:       outputDir,
		MaxFileSize:     s.config.MaxFileSize,
	}

	result, err := s.runner.Run(ctx, opts)
	if err != nil {
		var runErr *analyzer.RunError
		if errors.As(err, &runErr) {
			log.Printf("Analysis failed (%s): %v", runErr.Kind, err)
		}
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	var notes []string
	if usedDefault {
		notes = append(notes, fmt.Sprintf("No valid prefixes provided. Using default prefixes: %s",
			strings.Join(config.DefaultPrefixes, ",")))
	}
	return mcp.NewToolResultText(formatAnalysis(result, notes)), nil
}

func (s *Server) handleListColumns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	excelPath, err := request.RequireString("excel_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if excelPath, err = s.guard.resolve(excelPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !analyzer.HasSpreadsheetExtension(excelPath) {
		return mcp.NewToolResultError(fmt.Sprintf("spreadsheet must be an .xlsx file: %s", excelPath)), nil
	}

	columns, err := spreadsheet.Columns(excelPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Columns in %s (%d):\n", filepath.Base(excelPath), len(columns))
	for i, c := range columns {
		text += fmt.Sprintf("  %d. %s\n", i+1, c)
	}
	return mcp.NewToolResultText(text), nil
}

// formatAnalysis renders a run result for the tool response.
func formatAnalysis(result *analyzer.Result, notes []string) string {
	var b strings.Builder
	b.WriteString("Analysis Summary\n")
	b.WriteString(result.Summary())

	b.WriteString("\n")
	if result.Strategy != "" {
		fmt.Fprintf(&b, "Identifiers found on the document: %d (via %s)\n", result.Observations, result.Strategy)
	} else {
		b.WriteString("No identifiers found on the document\n")
	}
	fmt.Fprintf(&b, "Highlights drawn: %d\n", result.Markers)

	b.WriteString("\nOutput Files\n")
	fmt.Fprintf(&b, "  Modified spreadsheet: %s\n", result.Outputs.ModifiedSpreadsheet)
	fmt.Fprintf(&b, "  Highlighted PDF: %s\n", result.Outputs.AnnotatedDocument)
	fmt.Fprintf(&b, "  Detailed report: %s\n", result.Outputs.Report)

	if len(result.Warnings) > 0 || len(notes) > 0 {
		b.WriteString("\nWarnings\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "  - %s\n", n)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	return b.String()
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting component analyzer MCP server in stdio mode")
		log.Printf("Directory: %s", s.guard.root)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
