// Package project scans a directory tree for comment-tag blocks, builds the
// provider/consumer index, and applies exclude/include/template-path
// configuration from mdconfig.
package project

import (
	"os"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdt/pkg/mdconfig"
	"github.com/yaklabco/mdt/pkg/tag"
)

// DefaultMaxFileSize mirrors mdconfig.DefaultMaxFileSize for scans run
// without a discovered config file.
const DefaultMaxFileSize = mdconfig.DefaultMaxFileSize

// ScanOptions controls which files a scan visits and how their tags are
// parsed.
type ScanOptions struct {
	ExcludePatterns    []string
	IncludeGlobs       []glob.Glob
	TemplatePaths      []string
	MaxFileSize        uint64
	DisableGitignore   bool
	MarkdownCodeblocks tag.CodeBlockFilter
	ExcludedBlocks     []string
	CacheVerifyHash    bool
}

// DefaultScanOptions returns the options used for a bare scan with no
// discovered configuration file.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{MaxFileSize: DefaultMaxFileSize}
}

// OptionsFromConfig derives ScanOptions from a loaded mdconfig.Config. cfg
// may be nil, in which case DefaultScanOptions is returned.
func OptionsFromConfig(cfg *mdconfig.Config) ScanOptions {
	opts := DefaultScanOptions()
	if cfg == nil {
		return opts
	}

	opts.ExcludePatterns = cfg.Exclude.Patterns
	opts.TemplatePaths = cfg.Templates.Paths
	opts.MaxFileSize = cfg.MaxFileSize
	opts.DisableGitignore = cfg.DisableGitignore
	opts.MarkdownCodeblocks = cfg.Exclude.MarkdownCodeblocks
	opts.ExcludedBlocks = cfg.Exclude.Blocks
	if _, ok := os.LookupEnv("MDT_CACHE_VERIFY_HASH"); ok {
		opts.CacheVerifyHash = true
	}

	for _, pattern := range cfg.Include.Patterns {
		if g, err := glob.Compile(pattern, '/'); err == nil {
			opts.IncludeGlobs = append(opts.IncludeGlobs, g)
		}
	}

	return opts
}
