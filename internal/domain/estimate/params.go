// Package estimate derives checkpoint and runtime memory footprints from
// the sparse signals a training config carries: a model name and a dtype.
package estimate

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultParamsBillions is assumed when a model's size cannot be inferred.
const DefaultParamsBillions = 7.0

// DefaultDtype is assumed when a config names no dtype.
const DefaultDtype = "bf16"

var sizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*b(?:illion)?`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)-?b(?:-|_|$)`),
}

type knownSize struct {
	family string
	params float64
}

// Matched by substring in this order; the first hit wins.
var knownFamilies = []knownSize{
	{"gpt2", 0.124},
	{"gpt2-medium", 0.355},
	{"gpt2-large", 0.774},
	{"gpt2-xl", 1.5},
	{"llama-2-7b", 7.0},
	{"llama-2-13b", 13.0},
	{"llama-2-70b", 70.0},
	{"llama-3-8b", 8.0},
	{"llama-3-70b", 70.0},
	{"mistral-7b", 7.0},
	{"mixtral-8x7b", 46.7},
	{"qwen2.5-7b", 7.0},
	{"qwen2.5-14b", 14.0},
	{"qwen2.5-72b", 72.0},
	{"qwen3-8b", 8.0},
}

// InferParamsBillions guesses a parameter count in billions from a free-text
// model name. ok is false when nothing matched.
func InferParamsBillions(name string) (params float64, ok bool) {
	if name == "" {
		return 0, false
	}
	lower := strings.ToLower(name)

	for _, re := range sizePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				return f, true
			}
		}
	}

	for _, k := range knownFamilies {
		if strings.Contains(lower, k.family) {
			return k.params, true
		}
	}
	return 0, false
}

var dtypeBytes = map[string]float64{
	"fp32":     4,
	"float32":  4,
	"fp16":     2,
	"float16":  2,
	"bf16":     2,
	"bfloat16": 2,
	"fp8":      1,
	"int8":     1,
	"int4":     0.5,
}

// BytesPerParam maps a dtype tag to its width in bytes. Unknown or empty
// tags are treated as bf16.
func BytesPerParam(dtype string) float64 {
	if b, ok := dtypeBytes[strings.ToLower(strings.TrimSpace(dtype))]; ok {
		return b
	}
	return 2
}
