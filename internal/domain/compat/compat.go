// Package compat decides whether a model can be trained by the
// prime-rl/vLLM stack.
package compat

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/primetrain/primetrain/internal/domain"
)

// VerifiedModel is known to train end to end.
const VerifiedModel = "Qwen/Qwen2.5-7B-Instruct"

var blockedModels = map[string]string{
	"openai/gpt-oss-20b":       "vLLM weight reload bug (TypeError: default_weight_loader)",
	"mistralai/Ministral-3-8B": "transformers KeyError during model loading",
}

var vlPatterns = []string{"vl", "vision", "visual", "llava", "cogvlm", "internvl"}

var visionTokens = map[string]bool{"vl": true, "vision": true, "visual": true}

var causalTags = []string{"text-generation", "causal-lm"}

// BlockReason returns why a model is blocked, if it is.
func BlockReason(model string) (string, bool) {
	r, ok := blockedModels[model]
	return r, ok
}

// IsVisionLanguage reports whether the name looks like a VL model.
func IsVisionLanguage(model string) bool {
	lower := strings.ToLower(model)
	for _, p := range vlPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Precheck runs the offline checks. done is true when a finding makes a
// registry lookup pointless.
func Precheck(model string) (results []domain.ValidationResult, done bool) {
	if reason, ok := BlockReason(model); ok {
		return []domain.ValidationResult{domain.Error(
			"blocked_model",
			fmt.Sprintf("Model %s is known to be incompatible", model),
			reason,
			"Choose a different model. "+VerifiedModel+" is verified working.",
		)}, true
	}

	if IsVisionLanguage(model) {
		return []domain.ValidationResult{domain.Error(
			"vl_model",
			fmt.Sprintf("Vision-language model detected: %s", model),
			"VL models use Qwen3VLConfig which is incompatible with AutoModelForCausalLM",
			fmt.Sprintf("Use text-only variant (e.g., %s)", TextOnlyVariant(model)),
		)}, true
	}
	return nil, false
}

// FromLookup turns a registry answer into findings.
func FromLookup(model string, info domain.ModelInfo) []domain.ValidationResult {
	switch info.Status {
	case domain.ModelFound:
		results := []domain.ValidationResult{domain.Success(
			"hf_availability",
			fmt.Sprintf("Model %s exists on HuggingFace", model),
		)}
		if !isCausal(info.Tags) {
			tags := info.Tags
			if len(tags) > 5 {
				tags = tags[:5]
			}
			results = append(results, domain.Warning(
				"model_type",
				"Model may not be a causal LM",
				"Tags: "+strings.Join(tags, ", "),
				"",
			))
		}
		return results

	case domain.ModelNotFound:
		return []domain.ValidationResult{domain.Error(
			"hf_availability",
			fmt.Sprintf("Model %s not found on HuggingFace", model),
			info.Reason,
			"Check model name spelling and ensure it's a public model",
		)}
	}

	msg := "Could not check HuggingFace availability"
	if info.Reason != "" {
		msg += " (" + info.Reason + ")"
	}
	return []domain.ValidationResult{domain.Warning("hf_availability", msg, "", "")}
}

func isCausal(tags []string) bool {
	for _, t := range tags {
		for _, c := range causalTags {
			if t == c {
				return true
			}
		}
	}
	return false
}

// TextOnlyVariant guesses the text-only sibling of a VL model name by
// dropping vision tokens, e.g. Qwen/Qwen2-VL-7B-Instruct becomes
// Qwen/Qwen2-7B-Instruct. It falls back to VerifiedModel when nothing
// can be dropped.
func TextOnlyVariant(model string) string {
	var b strings.Builder
	dropped := false
	for _, tok := range camelcase.Split(model) {
		if visionTokens[strings.ToLower(tok)] {
			dropped = true
			continue
		}
		b.WriteString(tok)
	}
	if !dropped {
		return VerifiedModel
	}

	out := b.String()
	for _, pair := range [][2]string{{"--", "-"}, {"__", "_"}, {"-_", "-"}, {"_-", "-"}, {"/-", "/"}, {"/_", "/"}} {
		for strings.Contains(out, pair[0]) {
			out = strings.ReplaceAll(out, pair[0], pair[1])
		}
	}
	return strings.Trim(out, "-_")
}
