package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdt/pkg/mdconfig"
	"github.com/yaklabco/mdt/pkg/tag"
)

// Context is a scanned project together with its loaded template data and
// resolved padding configuration, the unit consumed by the check/update
// engine.
type Context struct {
	Index   *Index
	Data    map[string]any
	Padding *mdconfig.PaddingConfig
}

// ScanWithConfig discovers the project config at root (if any), loads its
// data sources, and scans the tree, returning the combined Context. The
// scan is cache-assisted: scanner is called with root and opts and should
// be cache.Scan in normal operation, or Scan itself to bypass the cache
// entirely (kept as a parameter so this package has no import cycle with
// pkg/cache, which itself depends on pkg/project).
func ScanWithConfig(ctx context.Context, root string, scanner func(string, ScanOptions) (*Index, error)) (*Context, error) {
	cfg, err := mdconfig.Load(root)
	if err != nil {
		return nil, err
	}

	opts := OptionsFromConfig(cfg)
	if scanner == nil {
		scanner = Scan
	}
	idx, err := scanner(root, opts)
	if err != nil {
		return nil, err
	}

	result := &Context{Index: idx}
	if cfg != nil {
		result.Padding = cfg.Padding
		data, err := cfg.LoadData(ctx, root)
		if err != nil {
			return nil, err
		}
		result.Data = data
	} else {
		result.Data = map[string]any{}
	}

	return result, nil
}

// Scan walks root under opts and builds the provider/consumer index.
func Scan(root string, opts ScanOptions) (*Index, error) {
	files, err := CollectScanFiles(root, opts)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]FileData, len(files))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("project: stat %s: %w", file, err)
		}
		if uint64(info.Size()) > opts.MaxFileSize {
			return nil, fmt.Errorf("project: %s is %d bytes, exceeds max_file_size %d", file, info.Size(), opts.MaxFileSize)
		}

		data, err := ScanFile(root, file, opts)
		if err != nil {
			return nil, err
		}
		merged[RelativeKey(root, file)] = data
	}

	idx := MergeFileData(root, files, merged)
	annotateUnusedProviders(idx)
	return idx, nil
}

// CollectScanFiles resolves the full set of files a scan with opts would
// visit: the main tree, any configured template-path directories, and any
// include-glob matches, without reading or parsing any of them.
func CollectScanFiles(root string, opts ScanOptions) ([]string, error) {
	files, err := CollectFiles(root, opts.ExcludePatterns, opts.DisableGitignore)
	if err != nil {
		return nil, err
	}

	for _, templateDir := range opts.TemplatePaths {
		absDir := filepath.Join(root, templateDir)
		if info, err := os.Stat(absDir); err == nil && info.IsDir() {
			extra, err := CollectFiles(absDir, opts.ExcludePatterns, opts.DisableGitignore)
			if err != nil {
				return nil, err
			}
			files = appendUnique(files, extra)
		}
	}

	if len(opts.IncludeGlobs) > 0 {
		included, err := CollectIncluded(root, opts.IncludeGlobs, opts.ExcludePatterns, files)
		if err != nil {
			return nil, err
		}
		files = append(files, included...)
	}

	return files, nil
}

// RelativeKey normalizes an absolute path under root into the
// slash-separated relative key used to identify a file across scans.
func RelativeKey(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(rel)
}

func appendUnique(files, extra []string) []string {
	have := make(map[string]bool, len(files))
	for _, f := range files {
		have[f] = true
	}
	for _, f := range extra {
		if !have[f] {
			have[f] = true
			files = append(files, f)
		}
	}
	return files
}

// FileData is the result of parsing a single file in isolation: the
// provider and consumer blocks it defines, plus any diagnostics raised
// while parsing it. This is the unit cached per file by pkg/cache — a file
// whose fingerprint hasn't changed can reuse its previous FileData instead
// of being reread and reparsed.
type FileData struct {
	Providers   []ProviderEntry
	Consumers   []ConsumerEntry
	Diagnostics []tag.Diagnostic
}

// ScanFile reads and parses a single file, relative to root, returning its
// blocks without consulting or mutating any shared index state — duplicate
// provider detection happens later, in MergeFileData, once every file's
// data is available.
func ScanFile(root, file string, opts ScanOptions) (FileData, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return FileData{}, fmt.Errorf("project: reading %s: %w", file, err)
	}
	content := normalizeLineEndings(raw)
	relFile := RelativeKey(root, file)

	var blocks []tag.Block
	var diags []tag.Diagnostic
	if IsMarkdownFile(file) {
		blocks, diags = tag.ParseMarkdown(content, relFile)
	} else {
		blocks, diags = tag.ParseSource(content, relFile, opts.MarkdownCodeblocks)
	}

	data := FileData{Diagnostics: diags}

	isTemplate := IsTemplateFile(file)
	excluded := make(map[string]bool, len(opts.ExcludedBlocks))
	for _, name := range opts.ExcludedBlocks {
		excluded[name] = true
	}

	for _, block := range blocks {
		if excluded[block.Name] {
			continue
		}

		blockContent := string(block.Content(content))

		switch block.Kind {
		case tag.ProviderBlock:
			if !isTemplate {
				data.Diagnostics = append(data.Diagnostics, tag.Diagnostic{
					Kind:    tag.NonTemplateProvider,
					File:    relFile,
					Range:   block.Open,
					Message: "provider block `" + block.Name + "` found outside a *.t.md template file",
				})
				continue
			}
			data.Providers = append(data.Providers, ProviderEntry{Block: block, File: relFile, Content: blockContent})
		case tag.ConsumerBlock, tag.InlineBlock:
			data.Consumers = append(data.Consumers, ConsumerEntry{Block: block, File: relFile, Content: blockContent})
		}
	}

	return data, nil
}

// MergeFileData combines per-file parse results, in files order, into a
// single Index. A provider name already claimed by an earlier file in
// files order raises a non-fatal DuplicateProvider diagnostic and the later
// definition is discarded — this deliberately diverges from the original
// implementation's hard-aborting duplicate-provider error, so a usable
// index is still produced.
func MergeFileData(root string, files []string, fileData map[string]FileData) *Index {
	idx := &Index{Providers: map[string]ProviderEntry{}}

	for _, file := range files {
		key := RelativeKey(root, file)
		data, ok := fileData[key]
		if !ok {
			continue
		}

		idx.Diagnostics = append(idx.Diagnostics, data.Diagnostics...)

		for _, provider := range data.Providers {
			if existing, ok := idx.Providers[provider.Block.Name]; ok {
				idx.Diagnostics = append(idx.Diagnostics, tag.Diagnostic{
					Kind:    tag.DuplicateProvider,
					File:    provider.File,
					Range:   provider.Block.Open,
					Message: "provider `" + provider.Block.Name + "` already defined in " + existing.File,
				})
				continue
			}
			idx.Providers[provider.Block.Name] = provider
		}

		idx.Consumers = append(idx.Consumers, data.Consumers...)
	}

	return idx
}

// AnnotateUnusedProviders appends an UnusedProvider diagnostic for every
// provider with no matching ConsumerBlock reference anywhere in idx.
func AnnotateUnusedProviders(idx *Index) {
	annotateUnusedProviders(idx)
}

func annotateUnusedProviders(idx *Index) {
	referenced := map[string]bool{}
	for _, c := range idx.Consumers {
		if c.Block.Kind == tag.ConsumerBlock {
			referenced[c.Block.Name] = true
		}
	}
	for name, entry := range idx.Providers {
		if !referenced[name] {
			idx.Diagnostics = append(idx.Diagnostics, tag.Diagnostic{
				Kind:    tag.UnusedProvider,
				File:    entry.File,
				Range:   entry.Block.Open,
				Message: "provider `" + name + "` has no consumers",
			})
		}
	}
}

// normalizeLineEndings converts CRLF and bare CR to LF so that byte offsets
// computed during parsing match a single consistent line-ending
// convention throughout the scan.
func normalizeLineEndings(content []byte) []byte {
	if !strings.Contains(string(content), "\r") {
		return content
	}
	s := strings.ReplaceAll(string(content), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return []byte(s)
}
