package sync

import "github.com/yaklabco/mdt/pkg/textedit"

// Diff returns a unified diff of a stale entry's current body against its
// expected body, or nil if textedit finds nothing to show (which shouldn't
// happen for a genuinely stale entry, but is handled defensively).
func (e *StaleEntry) Diff() *textedit.Diff {
	return textedit.GenerateDiff(e.File, []byte(e.CurrentContent), []byte(e.ExpectedContent))
}
