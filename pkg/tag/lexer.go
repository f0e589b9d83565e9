package tag

import (
	"strconv"
	"strings"
)

// tokenKind enumerates the lexical tokens found inside a tag body, i.e. the
// text between the outer `{` and `}` of a `<!-- {...} -->` comment.
type tokenKind int

const (
	tokSigil tokenKind = iota
	tokIdent
	tokColon
	tokPipe
	tokString
	tokNumber
	tokBool
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
	b    bool
}

// lexTagBody tokenizes the inner text of a tag (without the surrounding
// braces). Whitespace, including embedded newlines, is skipped between
// tokens as the grammar in §4.1 allows. Returns errNotATag when the body
// holds a character outside the grammar, and an error for malformed
// string/number literals.
func lexTagBody(body string) ([]token, error) {
	var toks []token
	r := []rune(body)
	i := 0
	n := len(r)

	skipWS := func() {
		for i < n && isTagSpace(r[i]) {
			i++
		}
	}

	for {
		skipWS()
		if i >= n {
			break
		}
		c := r[i]
		switch {
		case c == '@' || c == '=' || c == '~' || c == '/':
			toks = append(toks, token{kind: tokSigil, text: string(c)})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon})
			i++
		case c == '|':
			toks = append(toks, token{kind: tokPipe})
			i++
		case c == '"' || c == '\'':
			s, consumed, err := lexString(r[i:], c)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s})
			i += consumed
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(r[i]) {
				i++
			}
			word := string(r[start:i])
			switch word {
			case "true":
				toks = append(toks, token{kind: tokBool, b: true})
			case "false":
				toks = append(toks, token{kind: tokBool, b: false})
			default:
				toks = append(toks, token{kind: tokIdent, text: word})
			}
		case c == '-' || isDigit(c):
			start := i
			i++
			for i < n && (isDigit(r[i]) || r[i] == '.') {
				i++
			}
			numStr := string(r[start:i])
			v, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, num: v})
		default:
			// Unrecognized character: the body does not match the grammar.
			return nil, errNotATag
		}
	}

	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func lexString(r []rune, quote rune) (string, int, error) {
	var b strings.Builder
	i := 1 // skip opening quote
	for i < len(r) {
		c := r[i]
		if c == quote {
			return b.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(r) {
			esc := r[i+1]
			switch esc {
			case '"', '\'', '\\':
				b.WriteRune(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(esc)
			}
			i += 2
			continue
		}
		b.WriteRune(c)
		i++
	}
	return "", 0, errUnterminatedString
}

func isTagSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
