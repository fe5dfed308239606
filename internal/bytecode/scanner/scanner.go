// Package scanner implements the bytecode front end's pull-based
// lexer: the compiler calls ScanToken once per token instead of the
// tree-walking front end's scan-everything-up-front pass. It skips
// whitespace and line comments internally, unlike internal/scanner
// which deliberately does not.
package scanner

import (
	"lox/internal/bytecode/token"
)

// Scanner lexes directly from a source string with no
// intermediate allocation per token; Lexeme strings slice into src.
type Scanner struct {
	src     string
	start   int
	current int
	line    int
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// ScanToken returns the next token, skipping leading whitespace and
// comments. It returns an EOF token forever once the source is
// exhausted, and an Error token (never Kind EOF) on a lexical failure.
func (s *Scanner) ScanToken() token.Token {
	s.skipWhitespace()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()

	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ';':
		return s.make(token.Semicolon)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case '/':
		return s.make(token.Slash)
	case '*':
		return s.make(token.Star)
	case '!':
		return s.make(s.choice('=', token.BangEqual, token.Bang))
	case '=':
		return s.make(s.choice('=', token.EqualEqual, token.Equal))
	case '<':
		return s.make(s.choice('=', token.LessEqual, token.Less))
	case '>':
		return s.make(s.choice('=', token.GreaterEqual, token.Greater))
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) match(c byte) bool {
	if s.atEnd() || s.src[s.current] != c {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) choice(c byte, ifMatch, otherwise token.Kind) token.Kind {
	if s.match(c) {
		return ifMatch
	}
	return otherwise
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.src[s.start:s.current], Line: s.line}
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.Token{Kind: token.Error, Lexeme: message, Line: s.line}
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance()
	return s.make(token.String)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.Number)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lexeme := s.src[s.start:s.current]
	if kind, ok := token.Keywords[lexeme]; ok {
		return s.make(kind)
	}
	return s.make(token.Identifier)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
