package syntax

import (
	"errors"
	"strings"
	"testing"

	"tblgen/report"
)

// lexAll lexes src until EOF and returns every token including the EOF.
func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	l := NewLexer("test.td", strings.NewReader(src))

	var toks []*Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

func TestLexerTokenKinds(t *testing.T) {
	src := `class C<string a = "x y">: Base { int n = 42; let f = a; }`

	want := []struct {
		kind  int
		value string
	}{
		{TOK_CLASS, "class"},
		{TOK_IDENT, "C"},
		{TOK_LT, "<"},
		{TOK_STRING, "string"},
		{TOK_IDENT, "a"},
		{TOK_ASSIGN, "="},
		{TOK_STRINGLIT, "x y"},
		{TOK_GT, ">"},
		{TOK_COLON, ":"},
		{TOK_IDENT, "Base"},
		{TOK_LBRACE, "{"},
		{TOK_INT, "int"},
		{TOK_IDENT, "n"},
		{TOK_ASSIGN, "="},
		{TOK_INTLIT, "42"},
		{TOK_SEMI, ";"},
		{TOK_LET, "let"},
		{TOK_IDENT, "f"},
		{TOK_ASSIGN, "="},
		{TOK_IDENT, "a"},
		{TOK_SEMI, ";"},
		{TOK_RBRACE, "}"},
		{TOK_EOF, ""},
	}

	toks := lexAll(t, src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Value != w.value {
			t.Errorf("token %d = (%s, %q), want (%s, %q)", i, KindName(toks[i].Kind), toks[i].Value, KindName(w.kind), w.value)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	src := "include int bit bits string list code dag class def foreach defm multiclass field let in inx"
	kinds := []int{
		TOK_INCLUDE, TOK_INT, TOK_BIT, TOK_BITS, TOK_STRING, TOK_LIST, TOK_CODE, TOK_DAG,
		TOK_CLASS, TOK_DEF, TOK_FOREACH, TOK_DEFM, TOK_MULTICLASS, TOK_FIELD, TOK_LET, TOK_IN,
		TOK_IDENT, TOK_EOF,
	}

	toks := lexAll(t, src)
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(kinds))
	}

	for i, kind := range kinds {
		if toks[i].Kind != kind {
			t.Errorf("token %d (%q) = %s, want %s", i, toks[i].Value, KindName(toks[i].Kind), KindName(kind))
		}
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(t, ":;.,<>[]{}()=?#")
	kinds := []int{
		TOK_COLON, TOK_SEMI, TOK_DOT, TOK_COMMA, TOK_LT, TOK_GT, TOK_LBRACKET, TOK_RBRACKET,
		TOK_LBRACE, TOK_RBRACE, TOK_LPAREN, TOK_RPAREN, TOK_ASSIGN, TOK_QUESTION, TOK_PASTE, TOK_EOF,
	}

	for i, kind := range kinds {
		if toks[i].Kind != kind {
			t.Errorf("token %d = %s, want %s", i, KindName(toks[i].Kind), KindName(kind))
		}
	}
}

func TestLexerCountsTabAsOneColumn(t *testing.T) {
	toks := lexAll(t, "\t\tdef X")

	if toks[0].Span.StartCol != 2 || toks[0].Span.EndCol != 5 {
		t.Errorf("def token at %+v, want columns 2 to 5", *toks[0].Span)
	}

	if toks[1].Span.StartCol != 6 {
		t.Errorf("ident token at %+v, want column 6", *toks[1].Span)
	}
}

func TestLexerSkipsComments(t *testing.T) {
	src := "// leading comment\ndef /* block\nspanning\nlines */ X // trailing"

	toks := lexAll(t, src)
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}

	if toks[0].Kind != TOK_DEF || toks[0].Span.StartLine != 1 || toks[0].Span.StartCol != 0 {
		t.Errorf("def token = %s at %+v, want def at line 1 col 0", KindName(toks[0].Kind), *toks[0].Span)
	}

	if toks[1].Kind != TOK_IDENT || toks[1].Value != "X" || toks[1].Span.StartLine != 3 {
		t.Errorf("ident token = %q at %+v, want X on line 3", toks[1].Value, *toks[1].Span)
	}
}

func TestLexerIntegerStopsAtNonDigit(t *testing.T) {
	toks := lexAll(t, "12ab")

	if toks[0].Kind != TOK_INTLIT || toks[0].Value != "12" {
		t.Errorf("first token = (%s, %q), want (integer literal, \"12\")", KindName(toks[0].Kind), toks[0].Value)
	}

	if toks[1].Kind != TOK_IDENT || toks[1].Value != "ab" {
		t.Errorf("second token = (%s, %q), want (identifier, \"ab\")", KindName(toks[1].Kind), toks[1].Value)
	}
}

func TestLexerStringSpansLines(t *testing.T) {
	toks := lexAll(t, "\"a\nb\" x")

	if toks[0].Kind != TOK_STRINGLIT || toks[0].Value != "a\nb" {
		t.Fatalf("string token = (%s, %q)", KindName(toks[0].Kind), toks[0].Value)
	}

	if toks[1].Span.StartLine != 1 || toks[1].Span.StartCol != 3 {
		t.Errorf("x span = %+v, want line 1 col 3", *toks[1].Span)
	}
}

func TestLexerErrorToken(t *testing.T) {
	for _, src := range []string{"$", "a / b", "@"} {
		var errTok *Token
		for _, tok := range lexAll(t, src) {
			if tok.Kind == TOK_ERROR {
				errTok = tok
				break
			}
		}

		if errTok == nil {
			t.Errorf("%q: no error token produced", src)
			continue
		}

		if len(errTok.Value) != 1 || !strings.Contains(src, errTok.Value) {
			t.Errorf("%q: error token value = %q", src, errTok.Value)
		}
	}
}

func TestLexerUnterminated(t *testing.T) {
	for _, src := range []string{`"never closed`, "/* never closed", "/* almost *"} {
		l := NewLexer("test.td", strings.NewReader(src))

		_, err := l.Next()

		var cerr *report.CompileError
		if !errors.As(err, &cerr) || cerr.Kind != report.KindLexical {
			t.Errorf("%q: got %v, want lexical error", src, err)
		}
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := NewLexer("test.td", strings.NewReader("x"))

	l.Next()
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil || tok.Kind != TOK_EOF {
			t.Fatalf("call %d: got %v, %v; want EOF", i, tok, err)
		}
	}
}

func TestLexerPushBack(t *testing.T) {
	l := NewLexer("test.td", strings.NewReader("a b"))

	a, _ := l.Next()
	l.PushBack(a)

	again, _ := l.Next()
	if again != a {
		t.Fatalf("Next after PushBack returned %v, want the pushed token", again)
	}

	b, _ := l.Next()
	if b.Value != "b" {
		t.Errorf("next token = %q, want b", b.Value)
	}
}

func TestLexerPushBackTwicePanics(t *testing.T) {
	l := NewLexer("test.td", strings.NewReader("a b"))
	a, _ := l.Next()
	l.PushBack(a)

	defer func() {
		if recover() == nil {
			t.Error("second PushBack did not panic")
		}
	}()

	l.PushBack(a)
}
