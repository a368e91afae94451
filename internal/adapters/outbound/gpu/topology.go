package gpu

import (
	"context"
	"fmt"

	"github.com/primetrain/primetrain/internal/domain"
)

// Unresolved never resolves; the memory-fit check is skipped.
type Unresolved struct{}

func (Unresolved) Resolve(context.Context) (domain.Topology, bool) {
	return domain.Topology{}, false
}

// Static resolves to a fixed topology.
type Static struct {
	Topology domain.Topology
}

func (s Static) Resolve(context.Context) (domain.Topology, bool) {
	t := s.Topology
	return t, t.Count > 0 && t.MemoryGB > 0
}

// FromPreset builds a static topology of count GPUs of a preset's class.
func FromPreset(p domain.HardwarePreset, count int) Static {
	if count <= 0 {
		count = 1
	}
	return Static{Topology: domain.Topology{
		Count:    count,
		MemoryGB: float64(p.VRAMGB),
		Source:   "preset " + p.Name,
	}}
}

// Detected resolves the topology from a live probe. Per-GPU memory is
// that of the smallest card.
type Detected struct {
	Probe domain.GPUProbe
}

func (d Detected) Resolve(ctx context.Context) (domain.Topology, bool) {
	gpus, err := d.Probe.QueryGPUs(ctx)
	if err != nil || len(gpus) == 0 {
		return domain.Topology{}, false
	}
	minMiB := gpus[0].MemoryTotal
	for _, g := range gpus[1:] {
		if g.MemoryTotal < minMiB {
			minMiB = g.MemoryTotal
		}
	}
	if minMiB <= 0 {
		return domain.Topology{}, false
	}
	return domain.Topology{Count: len(gpus), MemoryGB: minMiB / 1024, Source: "nvidia-smi"}, true
}

// FromSettings picks a topology source. Explicit count and memory win,
// then a preset, then live detection through probe. With none set the
// topology stays unresolved.
func FromSettings(s domain.GPUSettings, probe domain.GPUProbe) (domain.GPUTopology, error) {
	switch {
	case s.Count > 0 && s.MemoryGB > 0:
		return Static{Topology: domain.Topology{Count: s.Count, MemoryGB: s.MemoryGB, Source: "settings"}}, nil
	case s.Preset != "":
		p, ok := domain.LookupPreset(s.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown hardware preset %q", s.Preset)
		}
		return FromPreset(p, s.Count), nil
	case s.Detect:
		return Detected{Probe: probe}, nil
	}
	return Unresolved{}, nil
}
