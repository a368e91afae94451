package gotcha

import (
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
)

var vlIndicators = []string{"vl", "vision", "visual", "llava", "qwen-vl", "qwen2-vl"}

var forbiddenSamplingParams = []string{"top_p", "mask_truncated_completions", "zero_truncated_completions"}

// DefaultCatalogue returns the built-in gotchas, most costly failure modes
// first.
func DefaultCatalogue() Catalogue {
	return NewCatalogue(
		Gotcha{
			ID:             "fsdp-lora-conflict",
			Name:           "FSDP + LoRA Conflict",
			Description:    "FSDP CPU offload with LoRA uses 1.65x MORE memory, not less",
			Recommendation: "Use activation checkpointing instead: [trainer.model.ac] freq = 1",
			Severity:       domain.SeverityError,
			HoursLost:      1.0,
			Detect:         FSDPLoRAConflict,
		},
		Gotcha{
			ID:             "vl-model",
			Name:           "Vision-Language Model",
			Description:    "VL models are not compatible with vLLM/prime-rl text pipeline",
			Recommendation: "Use text-only variant (e.g., Qwen2.5-7B instead of Qwen2-VL-7B)",
			Severity:       domain.SeverityError,
			HoursLost:      0.5,
			Detect:         VisionLanguageModel,
		},
		Gotcha{
			ID:             "deprecated-lora-section",
			Name:           "Deprecated LoRA Section",
			Description:    "[trainer.model.experimental.lora] is deprecated",
			Recommendation: "Use [trainer.model.lora] instead",
			Severity:       domain.SeverityError,
			HoursLost:      0.25,
			Detect:         DeprecatedLoRASection,
		},
		Gotcha{
			ID:             "seq-len-mismatch",
			Name:           "Sequence Length Mismatch",
			Description:    "trainer.model.seq_len < orchestrator.seq_len causes truncation",
			Recommendation: "Set trainer.model.seq_len >= orchestrator.seq_len",
			Severity:       domain.SeverityError,
			HoursLost:      0.5,
			Detect:         SeqLenMismatch,
		},
		Gotcha{
			ID:             "forbidden-params",
			Name:           "Forbidden Sampling Parameters",
			Description:    "top_p, mask_truncated_completions, zero_truncated_completions are not supported",
			Recommendation: "Remove these parameters from [orchestrator.sampling]",
			Severity:       domain.SeverityError,
			HoursLost:      0.25,
			Detect:         ForbiddenSamplingParams,
		},
		Gotcha{
			ID:             "missing-lora-name",
			Name:           "Missing LoRA Name",
			Description:    "lora_name required under [orchestrator] when using LoRA",
			Recommendation: "Add lora_name = '<name>' under [orchestrator]",
			Severity:       domain.SeverityError,
			HoursLost:      0.25,
			Detect:         MissingLoRAName,
		},
		Gotcha{
			ID:             "prime-executor-latency",
			Name:           "Prime Executor Latency Bottleneck",
			Description:    "Remote sandbox (executor_backend='prime') adds ~1.5s per tool call",
			Recommendation: "Use executor_backend='local' for 10-15x speedup in tool-calling tasks",
			Severity:       domain.SeverityWarning,
			HoursLost:      24.0,
			Detect:         PrimeExecutorLatency,
		},
		Gotcha{
			ID:             "checkpointing-disabled",
			Name:           "Checkpointing Not Configured",
			Description:    "Without checkpointing, spot instance interruption means complete restart",
			Recommendation: "Add --ckpt --ckpt.interval 5 --ckpt.keep-last 3 to your run command",
			Severity:       domain.SeverityWarning,
			HoursLost:      4.0,
			Detect:         CheckpointingDisabled,
		},
	)
}

// FSDPLoRAConflict fires when CPU offload is combined with any LoRA table.
func FSDPLoRAConflict(cfg domain.ConfigTree) bool {
	if !cfg.Bool("trainer.model.fsdp_cpu_offload", false) {
		return false
	}
	return cfg.Has("trainer.model.lora") || cfg.Has("trainer.model.experimental.lora")
}

func VisionLanguageModel(cfg domain.ConfigTree) bool {
	name := strings.ToLower(cfg.ModelName())
	if name == "" {
		return false
	}
	for _, ind := range vlIndicators {
		if strings.Contains(name, ind) {
			return true
		}
	}
	return false
}

func DeprecatedLoRASection(cfg domain.ConfigTree) bool {
	return cfg.Has("trainer.model.experimental.lora")
}

func SeqLenMismatch(cfg domain.ConfigTree) bool {
	tv, ok := cfg.Lookup("trainer.model.seq_len")
	if !ok {
		return false
	}
	ov, ok := cfg.Lookup("orchestrator.seq_len")
	if !ok {
		return false
	}
	trainer, ok := domain.Number(tv)
	if !ok {
		return false
	}
	orch, ok := domain.Number(ov)
	if !ok {
		return false
	}
	return trainer < orch
}

func ForbiddenSamplingParams(cfg domain.ConfigTree) bool {
	sampling, ok := cfg.Section("orchestrator.sampling")
	if !ok {
		return false
	}
	for _, p := range forbiddenSamplingParams {
		if _, found := sampling[p]; found {
			return true
		}
	}
	return false
}

// MissingLoRAName fires only for the conjunction LoRA enabled and no name.
func MissingLoRAName(cfg domain.ConfigTree) bool {
	return cfg.Has("trainer.model.lora") && !cfg.Has("orchestrator.lora_name")
}

// PrimeExecutorLatency is a coarse text heuristic: any mention of tools or
// functions anywhere in the config counts as a tool-calling task.
func PrimeExecutorLatency(cfg domain.ConfigTree) bool {
	if !strings.EqualFold(cfg.String("orchestrator.env.executor_backend", ""), "prime") {
		return false
	}
	text := strings.ToLower(cfg.Text())
	return strings.Contains(text, "tool") || strings.Contains(text, "function")
}

func CheckpointingDisabled(cfg domain.ConfigTree) bool {
	return !cfg.Has("ckpt")
}
