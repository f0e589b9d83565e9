package mdconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// parseKDL is a minimal KDL (https://kdl.dev) document parser covering the
// subset needed for flat and nested data documents: bare and quoted node
// names, positional and named (key=value) entries, string/number/bool/null
// values, and `{ ... }` children blocks. It does not support KDL's type
// annotations, multiline strings, or slashdash comments beyond `//` line
// comments.
//
// A node with one unnamed entry and no children becomes that value. A node
// whose entries are all named becomes an object of those names. A node with
// children recurses into an object of its children. Anything else becomes
// an array of its entry values — mirroring the value/object/array
// disambiguation a structured KDL-to-JSON conversion would apply.
func parseKDL(content string) (any, error) {
	toks := tokenizeKDL(content)
	p := &kdlParser{toks: toks}
	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type kdlTokKind int

const (
	kdlIdent kdlTokKind = iota
	kdlString
	kdlNumber
	kdlBool
	kdlNull
	kdlEquals
	kdlLBrace
	kdlRBrace
	kdlSemi
	kdlNewline
	kdlEOF
)

type kdlTok struct {
	kind kdlTokKind
	text string
	num  float64
	b    bool
}

func tokenizeKDL(content string) []kdlTok {
	var toks []kdlTok
	r := []rune(content)
	i, n := 0, len(r)

	for i < n {
		c := r[i]
		switch {
		case c == '\n':
			toks = append(toks, kdlTok{kind: kdlNewline})
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '/' && i+1 < n && r[i+1] == '/':
			for i < n && r[i] != '\n' {
				i++
			}
		case c == '{':
			toks = append(toks, kdlTok{kind: kdlLBrace})
			i++
		case c == '}':
			toks = append(toks, kdlTok{kind: kdlRBrace})
			i++
		case c == ';':
			toks = append(toks, kdlTok{kind: kdlSemi})
			i++
		case c == '=':
			toks = append(toks, kdlTok{kind: kdlEquals})
			i++
		case c == '"':
			j := i + 1
			var b strings.Builder
			for j < n && r[j] != '"' {
				if r[j] == '\\' && j+1 < n {
					b.WriteRune(unescapeKDL(r[j+1]))
					j += 2
					continue
				}
				b.WriteRune(r[j])
				j++
			}
			toks = append(toks, kdlTok{kind: kdlString, text: b.String()})
			i = j + 1
		default:
			j := i
			for j < n && !isKDLDelim(r[j]) {
				j++
			}
			word := string(r[i:j])
			i = j
			switch word {
			case "true":
				toks = append(toks, kdlTok{kind: kdlBool, b: true})
			case "false":
				toks = append(toks, kdlTok{kind: kdlBool, b: false})
			case "null":
				toks = append(toks, kdlTok{kind: kdlNull})
			default:
				if v, err := strconv.ParseFloat(word, 64); err == nil {
					toks = append(toks, kdlTok{kind: kdlNumber, num: v})
				} else {
					toks = append(toks, kdlTok{kind: kdlIdent, text: word})
				}
			}
		}
	}
	toks = append(toks, kdlTok{kind: kdlEOF})
	return toks
}

func unescapeKDL(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func isKDLDelim(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', ';', '=', '"':
		return true
	default:
		return false
	}
}

type kdlParser struct {
	toks []kdlTok
	pos  int
}

func (p *kdlParser) peek() kdlTok {
	if p.pos >= len(p.toks) {
		return kdlTok{kind: kdlEOF}
	}
	return p.toks[p.pos]
}

func (p *kdlParser) next() kdlTok {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *kdlParser) skipSeparators() {
	for {
		switch p.peek().kind {
		case kdlNewline, kdlSemi:
			p.next()
		default:
			return
		}
	}
}

// parseDocument parses a sequence of sibling nodes (top-level or inside a
// `{ }` children block) into a JSON-like object keyed by node name.
func (p *kdlParser) parseDocument() (map[string]any, error) {
	out := make(map[string]any)
	p.skipSeparators()
	for p.peek().kind != kdlEOF && p.peek().kind != kdlRBrace {
		name, value, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		out[name] = value
		p.skipSeparators()
	}
	return out, nil
}

// kdlEntry is one positional or named value attached to a KDL node.
type kdlEntry struct {
	name  string
	value any
}

func (p *kdlParser) parseNode() (string, any, error) {
	nameTok := p.next()
	var name string
	switch nameTok.kind {
	case kdlIdent:
		name = nameTok.text
	case kdlString:
		name = nameTok.text
	default:
		return "", nil, fmt.Errorf("mdconfig: kdl: expected a node name, got token kind %d", nameTok.kind)
	}

	var entries []kdlEntry

	for {
		switch p.peek().kind {
		case kdlNewline, kdlSemi, kdlEOF, kdlRBrace:
			return name, finishKDLNode(entries, nil), nil
		case kdlLBrace:
			p.next()
			children, err := p.parseDocument()
			if err != nil {
				return "", nil, err
			}
			if p.peek().kind != kdlRBrace {
				return "", nil, fmt.Errorf("mdconfig: kdl: unclosed children block for node %q", name)
			}
			p.next()
			return name, children, nil
		case kdlIdent:
			// Could be a bare value or a `key=value` named entry.
			tok := p.next()
			if p.peek().kind == kdlEquals {
				p.next()
				v, err := p.parseValue()
				if err != nil {
					return "", nil, err
				}
				entries = append(entries, kdlEntry{name: tok.text, value: v})
				continue
			}
			entries = append(entries, kdlEntry{value: tok.text})
		default:
			v, err := p.parseValue()
			if err != nil {
				return "", nil, err
			}
			entries = append(entries, kdlEntry{value: v})
		}
	}
}

func (p *kdlParser) parseValue() (any, error) {
	tok := p.next()
	switch tok.kind {
	case kdlString:
		return tok.text, nil
	case kdlNumber:
		return tok.num, nil
	case kdlBool:
		return tok.b, nil
	case kdlNull:
		return nil, nil
	case kdlIdent:
		return tok.text, nil
	default:
		return nil, fmt.Errorf("mdconfig: kdl: expected a value, got token kind %d", tok.kind)
	}
}

func finishKDLNode(entries []kdlEntry, children map[string]any) any {
	if children != nil {
		return children
	}
	if len(entries) == 0 {
		return nil
	}
	if len(entries) == 1 && entries[0].name == "" {
		return entries[0].value
	}
	allNamed := true
	for _, e := range entries {
		if e.name == "" {
			allNamed = false
			break
		}
	}
	if allNamed {
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.name] = e.value
		}
		return out
	}
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}
