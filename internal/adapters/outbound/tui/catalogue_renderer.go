package tui

import (
	"fmt"
	"strings"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
)

// RenderGotchas lists a gotcha catalogue in evaluation order.
func RenderGotchas(c gotcha.Catalogue) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Known Gotchas"), dimStyle.Render(fmt.Sprintf("(%d)", c.Len())))
	b.WriteString("  " + separatorLine + "\n\n")

	for _, g := range c.Entries() {
		sev := g.Result().Severity
		fmt.Fprintf(&b, "  %s %s  %s\n", icon(sev), titleStyle.Render(g.Name), faintStyle.Render(g.ID))
		fmt.Fprintf(&b, "      %s\n", dimStyle.Render(g.Description))
		fmt.Fprintf(&b, "      %s %s\n", fixStyle.Render("→ fix:"), g.Recommendation)
		if g.HoursLost > 0 {
			fmt.Fprintf(&b, "      %s\n", faintStyle.Render(fmt.Sprintf("~%g hours lost when missed", g.HoursLost)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPresets lists hardware presets as a table.
func RenderPresets(presets []domain.HardwarePreset) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + sectionHeaderStyle.Render("Hardware Presets") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("%-11s %-12s %5s %6s %7s %5s %9s %5s",
		"NAME", "GPU", "VRAM", "BATCH", "TOKENS", "UTIL", "ROLLOUTS", "ACKPT")))

	for _, p := range presets {
		ackpt := "no"
		if p.ActivationCkpt {
			ackpt = "yes"
		}
		fmt.Fprintf(&b, "  %s %-12s %4dG %6d %7d %5.2f %9d %5s\n",
			titleStyle.Render(fmt.Sprintf("%-11s", p.Name)),
			p.GPUType, p.VRAMGB, p.BatchSize, p.MaxTokens,
			p.GPUMemoryUtilization, p.RolloutsPerExample, ackpt)
		if p.Notes != "" {
			fmt.Fprintf(&b, "  %s\n", faintStyle.Render("  "+p.Notes))
		}
	}
	b.WriteString("\n")
	return b.String()
}
