package tag

// BlockKind distinguishes the three sigils a tag may open with.
type BlockKind int

const (
	// ProviderBlock is opened by `@`; its body is authoritative content.
	ProviderBlock BlockKind = iota
	// ConsumerBlock is opened by `=`; its body is rewritten to match a provider.
	ConsumerBlock
	// InlineBlock is opened by `~`; its first argument is a template string
	// rendered in place, with no provider lookup.
	InlineBlock
)

func (k BlockKind) String() string {
	switch k {
	case ProviderBlock:
		return "provider"
	case ConsumerBlock:
		return "consumer"
	case InlineBlock:
		return "inline"
	default:
		return "unknown"
	}
}

// Block is a single opening/closing tag pair and the content between them.
//
// Invariants: Open.End.ByteOffset <= ContentRange.Start.ByteOffset <=
// ContentRange.End.ByteOffset <= Close.Start.ByteOffset, and the identifier
// read from Open equals the identifier read from Close.
type Block struct {
	Name         string
	Kind         BlockKind
	Open         Range
	Close        Range
	ContentRange Range
	Arguments    []string
	Transformers []Transformer
	SourceFile   string
}

// Content returns the current on-disk bytes spanned by the block's content
// range, given the full file content it was parsed from.
func (b Block) Content(fileContent []byte) []byte {
	start, end := b.ContentRange.Start.ByteOffset, b.ContentRange.End.ByteOffset
	if start > uint64(len(fileContent)) || end > uint64(len(fileContent)) || end < start {
		return nil
	}
	return fileContent[start:end]
}
