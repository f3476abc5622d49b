package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/cadmod/cadmod/internal/adapters/outbound/config"
	"github.com/cadmod/cadmod/internal/adapters/outbound/walker"
	"github.com/cadmod/cadmod/internal/application"
	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/domain/transform"
)

// registerTools registers all cadmod MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("cadmod_scan",
			mcplib.WithDescription("Scan the project tree for legacy Cadence syntax and return the full scan result as JSON"),
			mcplib.WithString("policy", mcplib.Description("Suppression policy: general or production (default: general)")),
		),
		handleScan(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("cadmod_validate",
			mcplib.WithDescription("Validate a Cadence code string: legacy-pattern checks plus full syntax validation"),
			mcplib.WithString("code", mcplib.Required(), mcplib.Description("Cadence source to validate")),
			mcplib.WithBoolean("strict", mcplib.Description("Treat warnings as errors")),
		),
		handleValidate(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("cadmod_transform",
			mcplib.WithDescription("Rewrite legacy Cadence syntax to the modern dialect and return the transformed code with substitution counts"),
			mcplib.WithString("code", mcplib.Required(), mcplib.Description("Cadence source to transform")),
		),
		handleTransform(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("cadmod_check_rejection",
			mcplib.WithDescription("Fast check whether a code string matches an automatic-rejection pattern"),
			mcplib.WithString("code", mcplib.Required(), mcplib.Description("Cadence source to check")),
		),
		handleCheckRejection(projectPath),
	)
}

// newRegistry loads the project configuration and builds the rule
// registry from it.
func newRegistry(projectPath string) (*rules.Registry, domain.EngineConfig, error) {
	cfg, err := configAdapter.New().Load(projectPath)
	if err != nil {
		return nil, domain.EngineConfig{}, err
	}
	reg := rules.NewRegistry(cfg)
	if err := reg.Validate(); err != nil {
		return nil, domain.EngineConfig{}, err
	}
	return reg, cfg, nil
}

func handleScan(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		reg, cfg, err := newRegistry(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("configuration failed: %v", err)), nil
		}

		policy := cfg.Policy
		if p, _ := request.GetArguments()["policy"].(string); p != "" {
			policy = domain.SuppressionPolicy(p)
		}

		collector := domain.NewCollector(nil)
		scanSvc, err := application.NewScanService(reg, walker.New(), policy, collector)
		if err != nil {
			return errorResult(fmt.Sprintf("scanner setup failed: %v", err)), nil
		}

		result, err := scanSvc.Scan(projectPath, cfg.ExcludePaths)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleValidate(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		reg, _, err := newRegistry(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("configuration failed: %v", err)), nil
		}
		strict, _ := request.GetArguments()["strict"].(bool)
		validateSvc, err := application.NewValidateService(reg, strict)
		if err != nil {
			return errorResult(fmt.Sprintf("validator setup failed: %v", err)), nil
		}
		return jsonResult(validateSvc.Review(code))
	}
}

func handleTransform(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		reg, _, err := newRegistry(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("configuration failed: %v", err)), nil
		}
		transformer, err := transform.New(reg)
		if err != nil {
			return errorResult(fmt.Sprintf("transformer setup failed: %v", err)), nil
		}
		return jsonResult(transformer.TransformAll(code))
	}
}

func handleCheckRejection(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		reg, _, err := newRegistry(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("configuration failed: %v", err)), nil
		}
		validateSvc, err := application.NewValidateService(reg, false)
		if err != nil {
			return errorResult(fmt.Sprintf("validator setup failed: %v", err)), nil
		}
		return jsonResult(validateSvc.CheckRejection(code))
	}
}

// jsonResult marshals v as indented JSON content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error-flagged text result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
