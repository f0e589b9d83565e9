package tag

import "testing"

func TestLexTagBody_SigilsAndIdent(t *testing.T) {
	toks, err := lexTagBody("@greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected sigil, ident, eof, got %d tokens", len(toks))
	}
	if toks[0].kind != tokSigil || toks[0].text != "@" {
		t.Fatalf("expected sigil token, got %+v", toks[0])
	}
	if toks[1].kind != tokIdent || toks[1].text != "greeting" {
		t.Fatalf("expected ident token %q, got %+v", "greeting", toks[1])
	}
	if toks[2].kind != tokEOF {
		t.Fatalf("expected trailing eof token, got %+v", toks[2])
	}
}

func TestLexTagBody_TransformerChainWithColonArgument(t *testing.T) {
	toks, err := lexTagBody("=greeting|trim|indent:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []tokenKind
	for _, tk := range toks {
		kinds = append(kinds, tk.kind)
	}
	want := []tokenKind{tokSigil, tokIdent, tokPipe, tokIdent, tokPipe, tokIdent, tokColon, tokNumber, tokEOF}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(kinds), toks)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("token %d: expected kind %d, got %d", i, k, kinds[i])
		}
	}
	if toks[7].num != 2 {
		t.Fatalf("expected numeric argument 2, got %v", toks[7].num)
	}
}

func TestLexTagBody_StringLiteralWithEscapes(t *testing.T) {
	toks, err := lexTagBody(`~snippet:"line one\nline two"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var str string
	var found bool
	for _, tk := range toks {
		if tk.kind == tokString {
			str = tk.text
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a string token, got %+v", toks)
	}
	if str != "line one\nline two" {
		t.Fatalf("expected escaped newline in string literal, got %q", str)
	}
}

func TestLexTagBody_UnterminatedStringErrors(t *testing.T) {
	_, err := lexTagBody(`@x:"unterminated`)
	if err != errUnterminatedString {
		t.Fatalf("expected errUnterminatedString, got %v", err)
	}
}

func TestLexTagBody_BooleanLiterals(t *testing.T) {
	toks, err := lexTagBody("if:true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, tk := range toks {
		if tk.kind == tokBool {
			found = true
			if !tk.b {
				t.Fatalf("expected true, got %v", tk.b)
			}
		}
	}
	if !found {
		t.Fatalf("expected a bool token, got %+v", toks)
	}

	toks, err = lexTagBody("if:false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tk := range toks {
		if tk.kind == tokBool && tk.b {
			t.Fatalf("expected false, got true")
		}
	}
}

func TestLexTagBody_NegativeNumber(t *testing.T) {
	toks, err := lexTagBody("wrap:-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got float64
	var found bool
	for _, tk := range toks {
		if tk.kind == tokNumber {
			got = tk.num
			found = true
		}
	}
	if !found || got != -1 {
		t.Fatalf("expected numeric token -1, got found=%v val=%v", found, got)
	}
}

func TestLexTagBody_UnrecognizedCharacterIsNotATag(t *testing.T) {
	_, err := lexTagBody("@x#bogus")
	if err != errNotATag {
		t.Fatalf("expected errNotATag, got %v", err)
	}
}
