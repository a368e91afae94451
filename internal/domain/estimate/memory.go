package estimate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
)

// TrainingMode selects the runtime memory multiplier.
type TrainingMode string

const (
	ModeInference    TrainingMode = "inference"
	ModeLoRA         TrainingMode = "lora"
	ModeFullFinetune TrainingMode = "full_finetune"
)

var modeMultipliers = map[TrainingMode]float64{
	ModeInference:    1.2,
	ModeLoRA:         1.5,
	ModeFullFinetune: 4.0,
}

const defaultModeMultiplier = 1.5

// Curated sizes for well-known hub identifiers, matched by substring.
var knownModels = []knownSize{
	{"qwen/qwen3-8b", 8.2},
	{"qwen/qwen2.5-7b", 7.0},
	{"qwen/qwen2.5-7b-instruct", 7.0},
	{"qwen/qwen2.5-3b", 3.0},
	{"meta-llama/llama-3.2-3b", 3.0},
	{"meta-llama/llama-3.1-8b", 8.0},
	{"mistralai/mistral-7b-v0.1", 7.0},
}

var trailingSize = regexp.MustCompile(`(\d+(?:\.\d+)?)[bB]`)

// DefaultMemoryUtilization is the vLLM gpu_memory_utilization default.
const DefaultMemoryUtilization = 0.90

// Headroom below this fraction of available memory raises a warning.
const minHeadroom = 0.15

const gib = 1024 * 1024 * 1024

// MemoryParamsBillions resolves the parameter count used for runtime
// memory estimation.
func MemoryParamsBillions(model string) float64 {
	lower := strings.ToLower(model)
	for _, k := range knownModels {
		if strings.Contains(lower, k.family) {
			return k.params
		}
	}
	if m := trailingSize.FindStringSubmatch(model); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return f
		}
	}
	return DefaultParamsBillions
}

// EstimateMemoryGB estimates runtime GPU memory in GiB.
func EstimateMemoryGB(model, dtype string, mode TrainingMode) float64 {
	params := MemoryParamsBillions(model)
	base := params * 1e9 * BytesPerParam(dtype) / gib
	mult, ok := modeMultipliers[mode]
	if !ok {
		mult = defaultModeMultiplier
	}
	return base * mult
}

// ModeFor infers the training mode from a config: LoRA when trainer.model
// has a lora table, full fine-tuning otherwise.
func ModeFor(cfg domain.ConfigTree) TrainingMode {
	if cfg.Has("trainer.model.lora") {
		return ModeLoRA
	}
	return ModeFullFinetune
}

// CheckMemoryFit compares the estimated runtime memory of a model against
// the usable memory of a GPU topology.
func CheckMemoryFit(model string, cfg domain.ConfigTree, topo domain.Topology) []domain.ValidationResult {
	mode := ModeFor(cfg)
	dtype := cfg.String("trainer.model.dtype", DefaultDtype)
	estimated := EstimateMemoryGB(model, dtype, mode)

	util := cfg.Float("inference.gpu_memory_utilization", DefaultMemoryUtilization)
	available := topo.MemoryGB * util * float64(topo.Count)

	if estimated > available {
		return []domain.ValidationResult{domain.Error(
			"memory_fit",
			fmt.Sprintf("Estimated memory (%.1f GB) exceeds available (%.1f GB)", estimated, available),
			fmt.Sprintf("Model: %s, Mode: %s, GPUs: %dx%gGB", model, mode, topo.Count, topo.MemoryGB),
			"Reduce batch_size, max_tokens, or use LoRA instead of full fine-tuning",
		)}
	}

	results := []domain.ValidationResult{domain.Success(
		"memory_fit",
		fmt.Sprintf("Memory estimate: %.1f GB (fits in %.1f GB available)", estimated, available),
	)}
	headroom := (available - estimated) / available
	if headroom < minHeadroom {
		results = append(results, domain.Warning(
			"memory_headroom",
			fmt.Sprintf("Low memory headroom (%.0f%%)", headroom*100),
			"Consider reducing batch_size for stability",
			"",
		))
	}
	return results
}

// ParseMode maps a user-supplied mode name to a TrainingMode.
func ParseMode(s string) (TrainingMode, bool) {
	m := TrainingMode(strings.ToLower(strings.TrimSpace(s)))
	_, ok := modeMultipliers[m]
	return m, ok
}
