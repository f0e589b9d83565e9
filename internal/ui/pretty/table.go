package pretty

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/mdt/pkg/project"
	"github.com/yaklabco/mdt/pkg/tag"
)

const (
	tablePadding     = 2
	minNameWidth     = 16
	minKindWidth     = 8
	minFileWidth     = 24
	minStatusWidth   = 10
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow is a single line in the `mdt list` block table.
type TableRow struct {
	Name   string
	Kind   string
	File   string
	Status string
	Linked bool
}

// TableFormatter formats a project's blocks as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// BuildRows derives table rows from a scanned project index: every provider
// (linked if it has at least one consumer) and every consumer/inline block
// (linked if its reference resolves).
func BuildRows(idx *project.Index) []TableRow {
	var rows []TableRow

	referenced := map[string]bool{}
	for _, c := range idx.Consumers {
		if c.Block.Kind == tag.ConsumerBlock {
			referenced[c.Block.Name] = true
		}
	}

	for name, p := range idx.Providers {
		status := "unused"
		linked := referenced[name]
		if linked {
			status = "linked"
		}
		rows = append(rows, TableRow{Name: name, Kind: "provider", File: p.File, Status: status, Linked: linked})
	}

	for _, c := range idx.Consumers {
		switch c.Block.Kind {
		case tag.InlineBlock:
			rows = append(rows, TableRow{Name: c.Block.Name, Kind: "inline", File: c.File, Status: "inline", Linked: true})
		case tag.ConsumerBlock:
			_, ok := idx.Providers[c.Block.Name]
			status, linked := "missing", false
			if ok {
				status, linked = "linked", true
			}
			rows = append(rows, TableRow{Name: c.Block.Name, Kind: "consumer", File: c.File, Status: status, Linked: linked})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].File != rows[j].File {
			return rows[i].File < rows[j].File
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

type columnWidths struct {
	name, kind, file, status int
}

func (t *TableFormatter) calculateWidths(rows []TableRow) columnWidths {
	widths := columnWidths{name: minNameWidth, kind: minKindWidth, file: minFileWidth, status: minStatusWidth}
	for _, r := range rows {
		widths.name = max(widths.name, len(r.Name))
		widths.kind = max(widths.kind, len(r.Kind))
		widths.file = max(widths.file, len(r.File))
		widths.status = max(widths.status, len(r.Status))
	}

	total := t.totalWidth(widths)
	if total > t.termWidth {
		excess := total - t.termWidth
		widths.file = max(minFileWidth, widths.file-excess)
	}
	return widths
}

func (t *TableFormatter) totalWidth(w columnWidths) int {
	return w.name + w.kind + w.file + w.status + tablePadding*4
}

// FormatTable renders rows as a bordered, severity-colored table.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateWidths(rows)
	var b strings.Builder

	b.WriteString(t.formatHeader(widths))
	b.WriteString("\n")
	b.WriteString(t.formatSeparator(widths, heavySeparator))
	b.WriteString("\n")

	currentFile := ""
	for i, row := range rows {
		if i > 0 && row.File != currentFile {
			b.WriteString(t.formatSeparator(widths, lightSeparator))
			b.WriteString("\n")
		}
		currentFile = row.File
		b.WriteString(t.formatRow(row, widths))
		b.WriteString("\n")
	}

	b.WriteString(t.formatSeparator(widths, heavySeparator))
	b.WriteString("\n")
	return b.String()
}

func (t *TableFormatter) formatHeader(w columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		w.name, "NAME", w.kind, "KIND", w.file, "FILE", w.status, "STATUS")
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(w columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(w)))
}

func (t *TableFormatter) formatRow(row TableRow, w columnWidths) string {
	name := truncateString(row.Name, w.name)
	kind := truncateString(row.Kind, w.kind)
	file := truncateFilePath(row.File, w.file)

	style := t.styles.TableUnlinked
	if row.Linked {
		style = t.styles.TableLinked
	}
	status := style.Render(fmt.Sprintf("%-*s", w.status, row.Status))

	return fmt.Sprintf(" %-*s  %-*s  %-*s  %s", w.name, name, w.kind, kind, w.file, file, status)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end rather than
// the beginning, so the filename stays visible.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
