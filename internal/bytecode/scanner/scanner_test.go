package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lox/internal/bytecode/scanner"
	"lox/internal/bytecode/token"
)

func scanAll(src string) []token.Token {
	s := scanner.New(src)
	var toks []token.Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Error {
			return toks
		}
	}
}

func TestScanSkipsLineComments(t *testing.T) {
	toks := scanAll("1 // a comment\n+ 2")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{token.Number, token.Plus, token.Number, token.EOF}, kinds,
		"the bytecode scanner must skip comments, unlike the tree-walking one")
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll("!= == <= >=")
	assert.Equal(t, token.BangEqual, toks[0].Kind)
	assert.Equal(t, token.EqualEqual, toks[1].Kind)
	assert.Equal(t, token.LessEqual, toks[2].Kind)
	assert.Equal(t, token.GreaterEqual, toks[3].Kind)
}

func TestScanKeywordVsIdentifier(t *testing.T) {
	toks := scanAll("true trueish")
	assert.Equal(t, token.True, toks[0].Kind)
	assert.Equal(t, token.Identifier, toks[1].Kind)
}

func TestScanUnterminatedStringErrors(t *testing.T) {
	toks := scanAll(`"abc`)
	last := toks[len(toks)-1]
	assert.Equal(t, token.Error, last.Kind)
}
