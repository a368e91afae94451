package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/primetrain/primetrain/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	fixStyle      = lipgloss.NewStyle().Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats validation results in the order they were produced.
func RenderReport(r *domain.Report) string {
	var b strings.Builder

	title := headerStyle.Render("prime-train")
	subtitle := dimStyle.Render("Pre-flight validation")
	if r.ConfigPath != "" {
		subtitle += "\n" + dimStyle.Render(r.ConfigPath)
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle))
	b.WriteString("\n\n")

	RenderResults(&b, r.Results)

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")
	b.WriteString("  " + summaryLine(r) + "\n")
	if r.CommitHash != "" || r.RunID != "" {
		b.WriteString("  " + faintStyle.Render(runLine(r)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// RenderResults writes one line per result, followed by its details and
// fix when present.
func RenderResults(b *strings.Builder, results []domain.ValidationResult) {
	for _, res := range results {
		fmt.Fprintf(b, "  %s %s\n", icon(res.Severity), res.Message)
		if res.Details != "" {
			for _, line := range strings.Split(res.Details, "\n") {
				fmt.Fprintf(b, "      %s\n", dimStyle.Render(line))
			}
		}
		if res.Fix != "" {
			fmt.Fprintf(b, "      %s %s\n", fixStyle.Render("→ fix:"), res.Fix)
		}
	}
}

func icon(sev domain.Severity) string {
	switch sev {
	case domain.SeverityError:
		return failStyle.Render("✗")
	case domain.SeverityWarning:
		return warnStyle.Render("⚠")
	case domain.SeverityInfo:
		return infoStyle.Render("ℹ")
	default:
		return passStyle.Render("✓")
	}
}

func summaryLine(r *domain.Report) string {
	errs := r.Count(domain.SeverityError)
	warns := r.Count(domain.SeverityWarning)
	if errs == 0 && warns == 0 {
		return passStyle.Render("All checks passed")
	}

	var parts []string
	if errs > 0 {
		parts = append(parts, errorTagStyle.Render(fmt.Sprintf("%d error(s)", errs)))
	}
	if warns > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warning(s)", warns)))
	}
	return strings.Join(parts, "  ")
}

func runLine(r *domain.Report) string {
	var parts []string
	if r.RunID != "" {
		parts = append(parts, "run "+shortID(r.RunID, 8))
	}
	if r.CommitHash != "" {
		parts = append(parts, "commit "+shortID(r.CommitHash, 7))
	}
	return strings.Join(parts, "  ")
}

func shortID(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats recorded validation runs, oldest first.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No validation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortID(e.CommitHash, 7)
		if hash == "" {
			hash = "·······"
		}
		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		status := passStyle.Render("pass")
		if !e.Passed {
			status = failStyle.Render("fail")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(day),
			faintStyle.Render(hash),
			status,
			dimStyle.Render(fmt.Sprintf("%dE %dW", e.Errors, e.Warnings)),
			e.ConfigPath,
		)

		if i > 0 {
			diff := e.Errors - entries[i-1].Errors
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
