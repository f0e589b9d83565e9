package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdt/pkg/sync"
)

const summaryDividerWidth = 40

// FormatCheckSummaryOneLine formats a check result as a single line.
func (s *Styles) FormatCheckSummaryOneLine(result *sync.CheckResult) string {
	if result.IsOK() && !result.HasWarnings() {
		return s.Success.Render("all consumers in sync") + "\n"
	}

	var parts []string

	if n := len(result.Stale); n > 0 {
		word := "consumers"
		if n == 1 {
			word = "consumer"
		}
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d stale %s", n, word)))
	}

	if n := len(result.RenderErrors); n > 0 {
		word := "errors"
		if n == 1 {
			word = "error"
		}
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d render %s", n, word)))
	}

	if n := len(result.Warnings); n > 0 {
		word := "warnings"
		if n == 1 {
			word = "warning"
		}
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d template %s", n, word)))
	}

	if len(parts) == 0 {
		return s.Success.Render("all consumers in sync") + "\n"
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatUpdateSummaryOneLine formats an update result as a single line.
func (s *Styles) FormatUpdateSummaryOneLine(result *sync.UpdateResult, dryRun bool) string {
	if result.UpdatedCount == 0 {
		return s.Success.Render("nothing to update") + "\n"
	}

	word := "files"
	if result.UpdatedCount == 1 {
		word = "file"
	}

	verb := "updated"
	if dryRun {
		verb = "would update"
	}

	return s.Success.Render(fmt.Sprintf("%s %d %s", verb, result.UpdatedCount, word)) + "\n"
}

// FormatCheckSummary formats a check result as a detailed summary block.
func (s *Styles) FormatCheckSummary(result *sync.CheckResult) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Stale consumers: " +
		s.SummaryValue.Render(strconv.Itoa(len(result.Stale))) + "\n")
	builder.WriteString("  Render errors:   " +
		s.SummaryValue.Render(strconv.Itoa(len(result.RenderErrors))) + "\n")
	builder.WriteString("  Warnings:        " +
		s.SummaryValue.Render(strconv.Itoa(len(result.Warnings))) + "\n")

	builder.WriteString("\n")

	switch {
	case result.HasErrors():
		builder.WriteString(s.Failure.Render("check failed with render errors"))
	case len(result.Stale) > 0:
		builder.WriteString(s.Warning.Render("check failed: stale consumers found"))
	default:
		builder.WriteString(s.Success.Render("check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
