package render

import (
	"fmt"
	"strings"
)

// templateNode is one piece of a parsed template: literal text, an output
// expression, or a control structure.
type templateNode interface{}

type textNode struct{ value string }

type outputNode struct{ expr string }

type ifBranch struct {
	cond string
	body []templateNode
}

type ifNode struct {
	branches []ifBranch
	elseBody []templateNode
}

type forNode struct {
	varName  string
	iterExpr string
	body     []templateNode
}

type rawTokenKind int

const (
	rawText rawTokenKind = iota
	rawOutput
	rawStatement
	rawComment
)

type rawToken struct {
	kind  rawTokenKind
	value string
}

// tokenizeTemplate splits content into a flat sequence of text, `{{ }}`
// output, `{% %}` statement, and `{# #}` comment tokens.
func tokenizeTemplate(content string) []rawToken {
	var toks []rawToken
	i := 0
	n := len(content)

	for i < n {
		openIdx, kind, openLen, closeMarker := nextMarker(content, i)
		if openIdx < 0 {
			toks = append(toks, rawToken{kind: rawText, value: content[i:]})
			break
		}
		if openIdx > i {
			toks = append(toks, rawToken{kind: rawText, value: content[i:openIdx]})
		}
		innerStart := openIdx + openLen
		closeIdx := strings.Index(content[innerStart:], closeMarker)
		if closeIdx < 0 {
			toks = append(toks, rawToken{kind: rawText, value: content[openIdx:]})
			break
		}
		inner := content[innerStart : innerStart+closeIdx]
		toks = append(toks, rawToken{kind: kind, value: strings.TrimSpace(inner)})
		i = innerStart + closeIdx + len(closeMarker)
	}

	return toks
}

func nextMarker(content string, from int) (idx int, kind rawTokenKind, openLen int, closeMarker string) {
	best := -1
	bestKind := rawText
	bestOpenLen := 0
	bestClose := ""

	consider := func(marker string, k rawTokenKind, openLen int, close string) {
		i := strings.Index(content[from:], marker)
		if i < 0 {
			return
		}
		abs := from + i
		if best < 0 || abs < best {
			best = abs
			bestKind = k
			bestOpenLen = openLen
			bestClose = close
		}
	}

	consider("{{", rawOutput, 2, "}}")
	consider("{%", rawStatement, 2, "%}")
	consider("{#", rawComment, 2, "#}")

	return best, bestKind, bestOpenLen, bestClose
}

// parseTemplate builds a node tree from content.
func parseTemplate(content string) ([]templateNode, error) {
	toks := tokenizeTemplate(content)
	p := &tokenCursor{toks: toks}
	nodes, stop, err := parseNodes(p)
	if err != nil {
		return nil, err
	}
	if stop != "" {
		return nil, fmt.Errorf("unexpected `%s` with no matching opening tag", stop)
	}
	return nodes, nil
}

type tokenCursor struct {
	toks []rawToken
	pos  int
}

func (c *tokenCursor) peek() (rawToken, bool) {
	if c.pos >= len(c.toks) {
		return rawToken{}, false
	}
	return c.toks[c.pos], true
}

func (c *tokenCursor) next() (rawToken, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

// parseNodes consumes tokens until EOF or a statement keyword this level
// doesn't own (elif/else/endif/endfor), which it returns as stop so the
// caller can decide what to do with it.
func parseNodes(c *tokenCursor) ([]templateNode, string, error) {
	var nodes []templateNode

	for {
		tok, ok := c.next()
		if !ok {
			return nodes, "", nil
		}

		switch tok.kind {
		case rawText:
			nodes = append(nodes, textNode{value: tok.value})
		case rawComment:
			// Dropped entirely.
		case rawOutput:
			nodes = append(nodes, outputNode{expr: tok.value})
		case rawStatement:
			keyword, rest := splitKeyword(tok.value)
			switch keyword {
			case "if":
				node, err := parseIf(c, rest)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "for":
				node, err := parseFor(c, rest)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "elif", "else", "endif", "endfor":
				c.pos-- // push back; let the caller see this statement
				return nodes, keyword, nil
			default:
				return nil, "", fmt.Errorf("unknown statement `%s`", keyword)
			}
		}
	}
}

func splitKeyword(stmt string) (keyword, rest string) {
	stmt = strings.TrimSpace(stmt)
	idx := strings.IndexAny(stmt, " \t")
	if idx < 0 {
		return stmt, ""
	}
	return stmt[:idx], strings.TrimSpace(stmt[idx+1:])
}

func parseIf(c *tokenCursor, cond string) (templateNode, error) {
	node := ifNode{}
	currentCond := cond

	for {
		body, stop, err := parseNodes(c)
		if err != nil {
			return nil, err
		}
		node.branches = append(node.branches, ifBranch{cond: currentCond, body: body})

		tok, ok := c.next()
		if !ok || stop == "" {
			return nil, fmt.Errorf("unterminated `if %s`: missing `endif`", cond)
		}
		keyword, rest := splitKeyword(tok.value)
		switch keyword {
		case "elif":
			currentCond = rest
			continue
		case "else":
			elseBody, stop2, err := parseNodes(c)
			if err != nil {
				return nil, err
			}
			node.elseBody = elseBody
			endTok, ok := c.next()
			if !ok || stop2 != "endif" {
				return nil, fmt.Errorf("unterminated `if %s`: missing `endif`", cond)
			}
			_ = endTok
			return node, nil
		case "endif":
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected `%s` inside `if %s`", keyword, cond)
		}
	}
}

func parseFor(c *tokenCursor, clause string) (templateNode, error) {
	fields := strings.Fields(clause)
	if len(fields) != 3 || fields[1] != "in" {
		return nil, fmt.Errorf("malformed `for` clause: %q, expected `for x in expr`", clause)
	}
	node := forNode{varName: fields[0], iterExpr: fields[2]}

	body, stop, err := parseNodes(c)
	if err != nil {
		return nil, err
	}
	node.body = body

	if stop != "endfor" {
		return nil, fmt.Errorf("unterminated `for %s`: missing `endfor`", clause)
	}
	if _, ok := c.next(); !ok {
		return nil, fmt.Errorf("unterminated `for %s`: missing `endfor`", clause)
	}

	return node, nil
}
