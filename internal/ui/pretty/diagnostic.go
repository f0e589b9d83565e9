package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdt/pkg/sync"
	"github.com/yaklabco/mdt/pkg/tag"
)

// FormatTagDiagnostic formats a single parse-time diagnostic for terminal
// output: location, severity, message, and code/help footer.
func (s *Styles) FormatTagDiagnostic(diag tag.Diagnostic) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.File),
		diag.Range.Start.Line,
		diag.Range.Start.Column,
	)

	severity := s.severityFor(diag.Kind)
	codeDisplay := s.Code.Render("(" + diag.Kind.Code() + ")")

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location, severity, s.Message.Render(diag.Message), codeDisplay))

	if help := diag.Kind.Help(); help != "" {
		builder.WriteString("    " + s.Dim.Render("help:") + " " + s.Help.Render(help) + "\n")
	}

	return builder.String()
}

// severityFor classifies a diagnostic kind for coloring purposes. Every
// parse/scan diagnostic is non-fatal, but duplicate/unused providers read
// as warnings while the rest read as plain info.
func (s *Styles) severityFor(kind tag.DiagnosticKind) string {
	switch kind {
	case tag.DuplicateProvider, tag.UnusedProvider:
		return s.Warning.Render("warning")
	default:
		return s.Info.Render("info")
	}
}

// FormatRenderError formats a render failure tied to a consumer block.
func (s *Styles) FormatRenderError(re sync.RenderError) string {
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(re.File), re.Line, re.Column)
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		location, s.Error.Render("error"), s.Message.Render(re.Message),
		s.Code.Render("("+re.BlockName+")"))
}

// FormatStaleEntry formats a stale consumer for terminal output, optionally
// followed by a unified diff of its current vs. expected content.
func (s *Styles) FormatStaleEntry(entry sync.StaleEntry, showDiff bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(entry.File), entry.Line, entry.Column)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location, s.Warning.Render("stale"),
		s.Message.Render("content out of sync with its provider"),
		s.Code.Render("("+entry.BlockName+")")))

	if showDiff {
		if diff := entry.Diff(); diff != nil {
			builder.WriteString(s.FormatDiff(diff.String()))
		}
	}

	return builder.String()
}

// FormatDiff applies coloring to a unified diff's +/- lines.
func (s *Styles) FormatDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			lines[i] = s.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.DiffRemove.Render(line)
		default:
			lines[i] = s.DiffContext.Render(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatWarning formats a template warning (undefined nested attribute).
func (s *Styles) FormatWarning(w sync.TemplateWarning) string {
	vars := strings.Join(w.UndefinedVariables, ", ")
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(w.ProviderFile),
		s.Warning.Render("warning"),
		s.Message.Render(fmt.Sprintf("provider %q references undefined variables: %s", w.BlockName, vars)))
}
