package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/primetrain/primetrain/internal/adapters/outbound/cache"
	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/adapters/outbound/disk"
	"github.com/primetrain/primetrain/internal/adapters/outbound/gpu"
	"github.com/primetrain/primetrain/internal/adapters/outbound/huggingface"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/primetrain/primetrain/internal/domain/estimate"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
)

type deps struct {
	projectPath string
	settings    domain.Settings
	log         *slog.Logger
}

func (d deps) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.projectPath, path)
}

func (d deps) validateService(settings domain.Settings) (*application.ValidateService, error) {
	topo, err := gpu.FromSettings(settings.GPU, gpu.NewNvidiaSMI("", 0))
	if err != nil {
		return nil, err
	}
	return application.NewValidateService(
		config.NewTreeLoader(),
		cache.FromSettings(huggingface.FromSettings(settings, os.Getenv("HF_TOKEN")), settings, d.log),
		application.WithTopology(topo),
		application.WithLogger(d.log),
	), nil
}

func (d deps) budgetService() *application.BudgetService {
	return application.NewBudgetService(disk.New(), d.log)
}

// registerTools registers all prime-train MCP tools on the given server.
func registerTools(s *server.MCPServer, d deps) {
	// 1. primetrain_validate
	s.AddTool(
		mcplib.NewTool("primetrain_validate",
			mcplib.WithDescription("Validate a training config (TOML or YAML) before launch. Returns ordered findings with severity, details and fixes."),
			mcplib.WithString("config",
				mcplib.Required(),
				mcplib.Description("Path to the config file, relative to the project root"),
			),
			mcplib.WithBoolean("strict", mcplib.Description("Treat warnings as failures")),
			mcplib.WithBoolean("offline", mcplib.Description("Skip the HuggingFace model lookup")),
			mcplib.WithBoolean("budget", mcplib.Description("Append the checkpoint disk-budget check")),
			mcplib.WithString("checkpoint_dir", mcplib.Description("Checkpoint directory for the budget check")),
		),
		handleValidate(d),
	)

	// 2. primetrain_checkpoint_budget
	s.AddTool(
		mcplib.NewTool("primetrain_checkpoint_budget",
			mcplib.WithDescription("Compute how many checkpoints fit on local disk for a config and whether keep_last is safe"),
			mcplib.WithString("config",
				mcplib.Required(),
				mcplib.Description("Path to the config file, relative to the project root"),
			),
			mcplib.WithString("checkpoint_dir", mcplib.Description("Checkpoint directory (default from settings)")),
			mcplib.WithNumber("safety_buffer_gb", mcplib.Description("Disk space to keep free, in GB")),
		),
		handleBudget(d),
	)

	// 3. primetrain_estimate
	s.AddTool(
		mcplib.NewTool("primetrain_estimate",
			mcplib.WithDescription("Estimate checkpoint size and runtime GPU memory for a model or config"),
			mcplib.WithString("model", mcplib.Description("Model name, e.g. Qwen/Qwen3-8B")),
			mcplib.WithString("config", mcplib.Description("Config file to read the model from instead")),
			mcplib.WithString("dtype", mcplib.Description("Weight dtype (bf16, fp32, fp8, int4, ...)")),
			mcplib.WithString("mode", mcplib.Description("inference, lora or full_finetune")),
		),
		handleEstimate(d),
	)

	// 4. primetrain_list_gotchas
	s.AddTool(
		mcplib.NewTool("primetrain_list_gotchas",
			mcplib.WithDescription("List the known training misconfigurations that validation checks for"),
		),
		handleListGotchas(),
	)
}

type validateResponse struct {
	*domain.Report
	Passed bool                     `json:"passed"`
	Budget *budget.CheckpointBudget `json:"budget,omitempty"`
}

func handleValidate(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("config")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := request.GetArguments()
		settings := d.settings
		strict, _ := args["strict"].(bool)
		strict = strict || settings.Strict
		if offline, _ := args["offline"].(bool); offline {
			settings.Offline = true
		}
		withBudget, _ := args["budget"].(bool)
		if dir, _ := args["checkpoint_dir"].(string); dir != "" {
			settings.CheckpointDir = dir
		}

		svc, err := d.validateService(settings)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report := svc.ValidateFile(ctx, d.resolve(path))
		resp := validateResponse{Report: report}
		if withBudget && report.Config != nil {
			b, results := d.budgetService().Validate(report.Config, settings.CheckpointDir, settings.SafetyBufferGB)
			report.Add(results...)
			resp.Budget = &b
		}
		resp.Passed = !report.Failed(strict)
		return jsonResult(resp)
	}
}

type budgetResponse struct {
	Budget  budget.CheckpointBudget   `json:"budget"`
	Results []domain.ValidationResult `json:"results"`
	Summary string                    `json:"summary"`
}

func handleBudget(d deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("config")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := request.GetArguments()
		dir := d.settings.CheckpointDir
		if v, _ := args["checkpoint_dir"].(string); v != "" {
			dir = v
		}
		buffer := d.settings.SafetyBufferGB
		if v, ok := args["safety_buffer_gb"].(float64); ok {
			buffer = v
		}

		cfg, err := config.NewTreeLoader().Load(d.resolve(path))
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		b, results := d.budgetService().Validate(cfg, dir, buffer)
		return jsonResult(budgetResponse{Budget: b, Results: results, Summary: b.Summary()})
	}
}

func handleEstimate(d deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		model, _ := args["model"].(string)
		path, _ := args["config"].(string)
		dtype, _ := args["dtype"].(string)
		modeName, _ := args["mode"].(string)

		var mode estimate.TrainingMode
		if modeName != "" {
			m, ok := estimate.ParseMode(modeName)
			if !ok {
				return errorResult(fmt.Sprintf("unknown mode %q (valid: inference, lora, full_finetune)", modeName)), nil
			}
			mode = m
		}

		var cfg domain.ConfigTree
		switch {
		case path != "":
			loaded, err := config.NewTreeLoader().Load(d.resolve(path))
			if err != nil {
				return errorResult(fmt.Sprintf("loading config: %v", err)), nil
			}
			cfg = loaded
		case model != "":
			cfg = estimate.ForModel(model, dtype)
		default:
			return errorResult("one of model or config is required"), nil
		}

		return jsonResult(estimate.Summarize(cfg, mode))
	}
}

func handleListGotchas() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(gotchaList())
	}
}

// gotchaList returns the default catalogue with severities resolved.
func gotchaList() []gotcha.Gotcha {
	entries := gotcha.DefaultCatalogue().Entries()
	for i := range entries {
		entries[i].Severity = entries[i].Result().Severity
	}
	return entries
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
