package tag

import "strings"

// Comment is a single `<!-- ... -->` span found by a comment extractor
// (markdown-aware for .md files, lenient raw scanning for source files).
type Comment struct {
	Text  string // full comment text, including the <!-- and --> markers
	Range Range  // absolute byte/line/column span of the whole comment
}

// openTag is a committed, structurally-valid opening or inline tag, still
// sitting on the per-file pending-opens stack.
type openTag struct {
	sigil        rune
	name         string
	args         []string
	transformers []Transformer
	rng          Range
}

// closeTag is a committed `/name` close tag.
type closeTag struct {
	name string
	rng  Range
}

// parsedTag is the result of attempting to parse one comment as a tag.
type parsedTag struct {
	open  *openTag
	close *closeTag
}

// parseComment attempts to parse a single comment as a tag. It returns
// (nil, nil) when the comment does not match the grammar at all (no
// diagnostic warranted), including a sigil-led body that holds a character
// outside the tag grammar. Once the body commits to a sigil character, a
// malformed literal, a missing name or argument, or a bad transformer
// produces a diagnostic.
func parseComment(c Comment) (*parsedTag, *Diagnostic) {
	inner, ok := tagEnvelope(c.Text)
	if !ok {
		return nil, nil
	}

	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return nil, nil
	}
	first := rune(trimmed[0])
	if first != '@' && first != '=' && first != '~' && first != '/' {
		return nil, nil
	}

	toks, err := lexTagBody(inner)
	if err == errNotATag {
		return nil, nil
	}
	if err != nil {
		// Body looked committed (sigil-led) but failed to lex; report it
		// rather than silently dropping, since the envelope and sigil are
		// unambiguous evidence of an attempted tag.
		return nil, &Diagnostic{Kind: InvalidName, File: "", Range: c.Range, Message: "malformed tag body: " + err.Error()}
	}

	p := &tagTokenParser{toks: toks}
	sigilTok := p.next()
	if sigilTok.kind != tokSigil {
		return nil, nil
	}
	sigil := rune(sigilTok.text[0])

	nameTok := p.next()
	if nameTok.kind != tokIdent {
		return nil, &Diagnostic{Kind: InvalidName, Range: c.Range, Message: "expected an identifier after sigil"}
	}
	name := nameTok.text

	if sigil == '/' {
		return &parsedTag{close: &closeTag{name: name, rng: c.Range}}, nil
	}

	var args []string
	for p.peek().kind == tokColon {
		p.next()
		argTok := p.next()
		arg, ok := argFromToken(argTok)
		if !ok {
			return nil, &Diagnostic{Kind: InvalidName, Range: c.Range, Message: "expected a literal argument after ':'"}
		}
		args = append(args, arg.String())
	}

	var transformers []Transformer
	var diag *Diagnostic
	for p.peek().kind == tokPipe {
		p.next()
		tTok := p.next()
		if tTok.kind != tokIdent {
			return nil, &Diagnostic{Kind: InvalidName, Range: c.Range, Message: "expected a transformer name after '|'"}
		}
		kind, ok := LookupTransformer(tTok.text)
		if !ok {
			diag = &Diagnostic{Kind: UnknownTransformer, Range: c.Range, Message: "unknown transformer: " + tTok.text}
			continue
		}
		var tArgs []Argument
		for p.peek().kind == tokColon {
			p.next()
			argTok := p.next()
			arg, ok := argFromToken(argTok)
			if !ok {
				return nil, &Diagnostic{Kind: InvalidName, Range: c.Range, Message: "expected a literal argument after ':'"}
			}
			tArgs = append(tArgs, arg)
		}
		if err := ValidateArity(kind, len(tArgs)); err != nil {
			diag = &Diagnostic{Kind: InvalidTransformerArgs, Range: c.Range, Message: "transformer `" + tTok.text + "` " + err.Error()}
			continue
		}
		transformers = append(transformers, Transformer{Kind: kind, Args: tArgs})
	}

	return &parsedTag{open: &openTag{sigil: sigil, name: name, args: args, transformers: transformers, rng: c.Range}}, diag
}

// tagEnvelope trims the <!-- --> markers and outer whitespace, returning
// the text inside the outer braces. ok is false unless the trimmed body is
// exactly a single {...} envelope.
func tagEnvelope(text string) (string, bool) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "<!--")
	t = strings.TrimSuffix(t, "-->")
	t = strings.TrimSpace(t)
	if !strings.HasPrefix(t, "{") || !strings.HasSuffix(t, "}") {
		return "", false
	}
	return t[1 : len(t)-1], true
}

func argFromToken(t token) (Argument, bool) {
	switch t.kind {
	case tokString:
		return Argument{Kind: ArgString, Str: t.text}, true
	case tokNumber:
		return Argument{Kind: ArgNumber, Num: t.num}, true
	case tokBool:
		return Argument{Kind: ArgBool, Bool: t.b}, true
	default:
		return Argument{}, false
	}
}

type tagTokenParser struct {
	toks []token
	pos  int
}

func (p *tagTokenParser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *tagTokenParser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// BuildBlocks runs the pending-opens stack machine over an ordered comment
// list for a single file, producing Blocks and Diagnostics. lenient
// controls EOF handling for still-open blocks: false (markdown files) emits
// UnclosedBlock for each; true (source files) discards them silently.
func BuildBlocks(comments []Comment, sourceFile string, lenient bool) ([]Block, []Diagnostic) {
	var blocks []Block
	var diags []Diagnostic
	var stack []openTag

	sigilKind := func(s rune) BlockKind {
		switch s {
		case '@':
			return ProviderBlock
		case '~':
			return InlineBlock
		default:
			return ConsumerBlock
		}
	}

	for _, c := range comments {
		parsed, diag := parseComment(c)
		if diag != nil {
			diag.File = sourceFile
			diags = append(diags, *diag)
		}
		if parsed == nil {
			continue
		}

		if parsed.open != nil {
			stack = append(stack, *parsed.open)
			continue
		}

		// Close tag: search from the top for the most recently opened
		// block with a matching name.
		matchIdx := -1
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == parsed.close.name {
				matchIdx = i
				break
			}
		}
		if matchIdx < 0 {
			// Stray close with no opener; not diagnosable under the
			// closed taxonomy, ignore.
			continue
		}
		for i := len(stack) - 1; i > matchIdx; i-- {
			diags = append(diags, Diagnostic{
				Kind:    UnclosedBlock,
				File:    sourceFile,
				Range:   stack[i].rng,
				Message: "block `" + stack[i].name + "` was never closed before a later `/" + parsed.close.name + "`",
			})
		}
		open := stack[matchIdx]
		stack = stack[:matchIdx]

		block := Block{
			Name:         open.name,
			Kind:         sigilKind(open.sigil),
			Open:         open.rng,
			Close:        parsed.close.rng,
			ContentRange: Range{Start: open.rng.End, End: parsed.close.rng.Start},
			Arguments:    open.args,
			Transformers: open.transformers,
			SourceFile:   sourceFile,
		}

		if block.Kind == InlineBlock && len(block.Arguments) == 0 {
			diags = append(diags, Diagnostic{
				Kind:    InlineMissingTemplate,
				File:    sourceFile,
				Range:   block.Open,
				Message: "inline block `" + block.Name + "` has no template-string argument",
			})
		}

		blocks = append(blocks, block)
	}

	if !lenient {
		for _, open := range stack {
			diags = append(diags, Diagnostic{
				Kind:    UnclosedBlock,
				File:    sourceFile,
				Range:   open.rng,
				Message: "block `" + open.name + "` was never closed",
			})
		}
	}

	return blocks, diags
}
