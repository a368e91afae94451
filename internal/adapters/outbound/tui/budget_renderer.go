package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/budget"
	"github.com/primetrain/primetrain/internal/domain/estimate"
)

var sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

// RenderBudget formats a checkpoint budget followed by its verdict.
func RenderBudget(b budget.CheckpointBudget, results []domain.ValidationResult) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  " + sectionHeaderStyle.Render("Checkpoint Budget") + "\n")
	sb.WriteString("  " + separatorLine + "\n")

	for _, line := range strings.Split(b.Summary(), "\n") {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			sb.WriteString("  " + line + "\n")
			continue
		}
		fmt.Fprintf(&sb, "  %s %s\n", dimStyle.Render(padRight(label+":", 28)), budgetValue(label, value, b))
	}

	sb.WriteString("\n")
	RenderResults(&sb, results)
	sb.WriteString("\n")
	return sb.String()
}

func budgetValue(label, value string, b budget.CheckpointBudget) string {
	if label != "Status" {
		return value
	}
	switch {
	case b.NeedsOffloading():
		return warnStyle.Render(value)
	case b.BudgetExceeded():
		return failStyle.Render(value)
	default:
		return passStyle.Render(value)
	}
}

// RenderEstimate formats checkpoint and memory estimates for a model.
func RenderEstimate(s estimate.Summary) string {
	var b strings.Builder
	ck := s.Checkpoint

	model := ck.Model
	if model == "" {
		model = "(no model configured)"
	}

	b.WriteString("\n")
	b.WriteString("  " + sectionHeaderStyle.Render("Size Estimate") + "  " + titleStyle.Render(model) + "\n")
	b.WriteString("  " + separatorLine + "\n")

	params := fmt.Sprintf("%gB", ck.ParamsBillions)
	if ck.ParamsAssumed {
		params += "  " + warnStyle.Render("(assumed, size not found in name)")
	}
	row(&b, "Parameters", params)
	row(&b, "Dtype", fmt.Sprintf("%s (%g bytes/param)", ck.Dtype, ck.BytesPerParam))
	row(&b, "Weights", fmt.Sprintf("%.1f GB", ck.WeightsGB))
	row(&b, "Optimizer state", fmt.Sprintf("%.1f GB", ck.OptimizerGB))
	row(&b, "Checkpoint (+10%)", titleStyle.Render(fmt.Sprintf("%.1f GB", ck.TotalGB)))
	b.WriteString("\n")
	row(&b, "Training mode", string(s.Mode))
	row(&b, "Runtime memory", titleStyle.Render(fmt.Sprintf("%.1f GiB", s.MemoryGB)))

	if s.CheckpointDir != "" {
		b.WriteString("\n")
		row(&b, "Existing checkpoints", fmt.Sprintf("%.1f GiB in %s", s.ExistingCheckpointsGB, s.CheckpointDir))
	}
	b.WriteString("\n")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(padRight(label, 22)), value)
}
