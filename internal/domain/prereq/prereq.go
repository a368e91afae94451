// Package prereq turns host probe data into pre-flight findings. Probing
// itself lives in adapters; everything here is pure.
package prereq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
)

// MinOpenFiles is the file descriptor limit vLLM and the trainer need.
const MinOpenFiles = 65536

// OpenFiles checks the soft RLIMIT_NOFILE value.
func OpenFiles(limit uint64, err error) domain.ValidationResult {
	if err != nil {
		return domain.Warning("ulimit-files", "Could not check ulimit",
			"Unable to determine file descriptor limit",
			fmt.Sprintf("Verify ulimit -n is at least %d", MinOpenFiles))
	}
	if limit < MinOpenFiles {
		return domain.Error("ulimit-files",
			fmt.Sprintf("File descriptor limit too low (%d)", limit),
			fmt.Sprintf("ulimit -n is %d, need at least %d", limit, MinOpenFiles),
			fmt.Sprintf("Run: ulimit -n %d", MinOpenFiles))
	}
	return domain.Success("ulimit-files", fmt.Sprintf("File descriptor limit OK (%d)", limit))
}

// CUDA reports whether any GPU is visible.
func CUDA(gpus []domain.GPUStatus, err error) domain.ValidationResult {
	if err != nil {
		return domain.Warning("cuda-available", "Could not check CUDA", probeDetails(err),
			"Install NVIDIA drivers to enable CUDA checks")
	}
	if len(gpus) == 0 {
		return domain.Error("cuda-available", "CUDA not available",
			"nvidia-smi reported no GPUs",
			"Verify CUDA drivers are installed and GPU is accessible")
	}

	names := make([]string, 0, len(gpus))
	for _, g := range gpus {
		names = append(names, g.Name)
	}
	plural := ""
	if len(gpus) > 1 {
		plural = "s"
	}
	return domain.Success("cuda-available", fmt.Sprintf("CUDA available (%d GPU%s)", len(gpus), plural)).
		WithDetails(strings.Join(names, ", "))
}

// GPUHealth flags GPUs stuck in the state where they report memory but show
// no usage at all.
func GPUHealth(gpus []domain.GPUStatus, err error) []domain.ValidationResult {
	switch {
	case errors.Is(err, domain.ErrProbeNotFound):
		return []domain.ValidationResult{domain.Warning("gpu-health", "nvidia-smi not found",
			"Cannot check GPU health", "Install NVIDIA drivers")}
	case errors.Is(err, domain.ErrProbeTimeout):
		return []domain.ValidationResult{domain.Warning("gpu-health", "GPU health check timed out",
			"nvidia-smi did not respond", "Check GPU status manually with nvidia-smi")}
	case err != nil:
		return []domain.ValidationResult{domain.Warning("gpu-health", "Could not query GPU status",
			err.Error(), "Check nvidia-smi is working")}
	}

	results := make([]domain.ValidationResult, 0, len(gpus))
	for _, g := range gpus {
		check := fmt.Sprintf("gpu-health-%d", g.Index)
		if g.MemoryTotal > 0 && g.MemoryUsedMiB == 0 && g.Utilization == 0 {
			results = append(results, domain.Warning(check,
				fmt.Sprintf("GPU %d may be in broken state", g.Index),
				"GPU shows 0 memory used, 0% utilization",
				"Try: nvidia-smi -r (requires root) or restart the machine"))
			continue
		}
		results = append(results, domain.Success(check, fmt.Sprintf("GPU %d healthy", g.Index)).
			WithDetails(fmt.Sprintf("%.0f/%.0f MiB used, %.0f%% utilization", g.MemoryUsedMiB, g.MemoryTotal, g.Utilization)))
	}
	return results
}

// VLLMEnv checks the environment variables vLLM needs under prime-rl.
func VLLMEnv(getenv func(string) string) []domain.ValidationResult {
	var results []domain.ValidationResult

	if getenv("VLLM_USE_V1") != "0" {
		results = append(results, domain.Warning("vllm-v1-disabled", "VLLM_USE_V1 not disabled",
			"vLLM V1 engine can cause CUDA segfaults with child processes",
			"Set: export VLLM_USE_V1=0"))
	} else {
		results = append(results, domain.Success("vllm-v1-disabled", "VLLM_USE_V1=0 set"))
	}

	if getenv("VLLM_WORKER_MULTIPROC_METHOD") != "spawn" {
		results = append(results, domain.Info("vllm-multiproc", "VLLM_WORKER_MULTIPROC_METHOD not set to spawn",
			"Setting to spawn prevents CUDA context inheritance issues",
			"Set: export VLLM_WORKER_MULTIPROC_METHOD=spawn"))
	}
	return results
}

func probeDetails(err error) string {
	switch {
	case errors.Is(err, domain.ErrProbeNotFound):
		return "nvidia-smi not found"
	case errors.Is(err, domain.ErrProbeTimeout):
		return "nvidia-smi did not respond"
	}
	return err.Error()
}
