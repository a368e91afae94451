package domain

import "strings"

// HardwarePreset holds tuned training parameters for a GPU class.
type HardwarePreset struct {
	Name                 string  `json:"name"`
	GPUType              string  `json:"gpu_type"`
	VRAMGB               int     `json:"vram_gb"`
	BatchSize            int     `json:"batch_size"`
	MaxTokens            int     `json:"max_tokens"`
	GPUMemoryUtilization float64 `json:"gpu_memory_utilization"`
	RolloutsPerExample   int     `json:"rollouts_per_example"`
	ActivationCkpt       bool    `json:"activation_checkpointing"`
	Notes                string  `json:"notes"`
}

var presets = []HardwarePreset{
	{
		Name: "h100-80gb", GPUType: "H100", VRAMGB: 80,
		BatchSize: 128, MaxTokens: 4096, GPUMemoryUtilization: 0.90, RolloutsPerExample: 8,
		Notes: "Optimal for large models with LoRA",
	},
	{
		Name: "a100-80gb", GPUType: "A100", VRAMGB: 80,
		BatchSize: 96, MaxTokens: 4096, GPUMemoryUtilization: 0.85, RolloutsPerExample: 8,
		Notes: "Good for most models, slightly slower than H100",
	},
	{
		Name: "a100-40gb", GPUType: "A100", VRAMGB: 40,
		BatchSize: 48, MaxTokens: 2048, GPUMemoryUtilization: 0.85, RolloutsPerExample: 4,
		ActivationCkpt: true,
		Notes:          "Requires activation checkpointing for 7B+ models",
	},
	{
		Name: "rtx4090", GPUType: "RTX 4090", VRAMGB: 24,
		BatchSize: 32, MaxTokens: 2048, GPUMemoryUtilization: 0.45, RolloutsPerExample: 4,
		ActivationCkpt: true,
		Notes:          "Consumer GPU - requires careful memory management",
	},
	{
		Name: "rtx5090", GPUType: "RTX 5090", VRAMGB: 32,
		BatchSize: 48, MaxTokens: 2048, GPUMemoryUtilization: 0.80, RolloutsPerExample: 4,
		ActivationCkpt: true,
		Notes:          "Next-gen consumer GPU with more headroom",
	},
	{
		Name: "l40s", GPUType: "L40S", VRAMGB: 48,
		BatchSize: 64, MaxTokens: 4096, GPUMemoryUtilization: 0.85, RolloutsPerExample: 6,
		Notes: "Good balance of memory and compute",
	},
}

// Presets returns a copy of the known hardware presets.
func Presets() []HardwarePreset {
	out := make([]HardwarePreset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (HardwarePreset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return HardwarePreset{}, false
}
