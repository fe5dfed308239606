package scanner_test

import (
	"testing"

	"lox/internal/loxerror"
	"lox/internal/scanner"
	"lox/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *loxerror.Collector) {
	t.Helper()
	errs := loxerror.New()
	toks := scanner.New([]byte(src), errs).Scan()
	return toks, errs
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := scan(t, "(){}, . - + ; * / == != <= >= < >")
	if errs.HadError {
		t.Fatalf("unexpected scan error")
	}
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash, token.EqualEqual, token.BangEqual,
		token.LessEqual, token.GreaterEqual, token.Less, token.Greater, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestScanDoesNotSkipComments(t *testing.T) {
	// Documented discrepancy: the tree-walking scanner has no comment
	// handling, so "//" lexes as two SLASH tokens rather than being
	// skipped to end of line.
	toks, errs := scan(t, "// not a comment\n1")
	if errs.HadError {
		t.Fatalf("unexpected scan error: %v", errs.Diagnostics())
	}
	if toks[0].Kind != token.Slash || toks[1].Kind != token.Slash {
		t.Fatalf("expected two SLASH tokens, got %v", toks[:2])
	}
}

func TestScanNumberLiteral(t *testing.T) {
	toks, _ := scan(t, "42 3.14")
	if toks[0].Literal != "42.0" {
		t.Errorf("got %q, want 42.0", toks[0].Literal)
	}
	if toks[1].Literal != "3.14" {
		t.Errorf("got %q, want 3.14", toks[1].Literal)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := scan(t, `"unterminated`)
	if !errs.HadError {
		t.Fatalf("expected scan error for unterminated string")
	}
}

func TestScanUnexpectedCharacterMessage(t *testing.T) {
	_, errs := scan(t, "@")
	if !errs.HadError {
		t.Fatalf("expected scan error for '@'")
	}
	diags := errs.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	want := "[line 1] Error: Unexpected character '@'."
	if diags[0].Error() != want {
		t.Errorf("got %q, want %q", diags[0].Error(), want)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, _ := scan(t, "class fun orchid")
	if toks[0].Kind != token.Class || toks[1].Kind != token.Fun {
		t.Fatalf("expected keyword kinds, got %v", toks[:2])
	}
	if toks[2].Kind != token.Identifier || toks[2].Lexeme != "orchid" {
		t.Fatalf("expected identifier 'orchid' (not keyword prefix match), got %v", toks[2])
	}
}
