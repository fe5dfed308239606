// Package scanner implements the tree-walking front end's lexer. It
// scans the whole source eagerly into a token slice, matching the
// documented discrepancy with the bytecode scanner: no comment
// skipping lives here, and there is no pull-style API.
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"lox/internal/loxerror"
	"lox/internal/token"
)

// Scanner walks a byte buffer producing tokens.
type Scanner struct {
	line     int
	contents []byte
	idx      int
	ch       byte
	errs     *loxerror.Collector
}

// New returns a Scanner over contents, reporting lexical errors to errs.
func New(contents []byte, errs *loxerror.Collector) *Scanner {
	return &Scanner{
		line:     1,
		contents: contents,
		idx:      -1,
		errs:     errs,
	}
}

func (s *Scanner) next() bool {
	if s.idx == len(s.contents)-1 {
		return false
	}
	s.idx++
	s.ch = s.contents[s.idx]
	return true
}

func (s *Scanner) peek() byte {
	if s.idx == len(s.contents)-1 {
		return 0
	}
	return s.contents[s.idx+1]
}

func (s *Scanner) peekTwo() byte {
	if s.idx == len(s.contents)-2 {
		return 0
	}
	return s.contents[s.idx+2]
}

func (s *Scanner) stringLiteral() (string, bool) {
	start := s.idx
	for {
		if !s.next() {
			s.errs.ScanError(s.line, "Unterminated string.")
			return "", false
		} else if s.ch == '"' {
			break
		} else if s.ch == '\n' {
			s.line++
		}
	}
	return string(s.contents[start : s.idx+1]), true
}

func (s *Scanner) numberLiteral() (string, string) {
	start := s.idx
	for isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' && isDigit(s.peekTwo()) {
		s.next()
		for isDigit(s.peek()) {
			s.next()
		}
	}

	lexeme := string(s.contents[start : s.idx+1])
	f, _ := strconv.ParseFloat(lexeme, 64)
	literal := fmt.Sprintf("%g", f)
	if !strings.Contains(literal, ".") {
		literal += ".0"
	}
	return lexeme, literal
}

func (s *Scanner) identifier() string {
	start := s.idx
	for isAlphaNumeric(s.peek()) {
		s.next()
	}
	return string(s.contents[start : s.idx+1])
}

// Scan consumes the whole buffer and returns the resulting token
// sequence, always terminated with an Eof token.
func (s *Scanner) Scan() []token.Token {
	toks := make([]token.Token, 0, len(s.contents)+1)

	for s.next() {
		switch s.ch {
		case ' ', '\t', '\r':
		case '\n':
			s.line++
		case '(':
			toks = append(toks, s.tok(token.LeftParen, string(s.ch)))
		case ')':
			toks = append(toks, s.tok(token.RightParen, string(s.ch)))
		case '{':
			toks = append(toks, s.tok(token.LeftBrace, string(s.ch)))
		case '}':
			toks = append(toks, s.tok(token.RightBrace, string(s.ch)))
		case ',':
			toks = append(toks, s.tok(token.Comma, string(s.ch)))
		case '.':
			toks = append(toks, s.tok(token.Dot, string(s.ch)))
		case '-':
			toks = append(toks, s.tok(token.Minus, string(s.ch)))
		case '+':
			toks = append(toks, s.tok(token.Plus, string(s.ch)))
		case ';':
			toks = append(toks, s.tok(token.Semicolon, string(s.ch)))
		case '*':
			toks = append(toks, s.tok(token.Star, string(s.ch)))
		case '/':
			toks = append(toks, s.tok(token.Slash, string(s.ch)))
		case '=':
			if s.peek() == '=' {
				s.next()
				toks = append(toks, s.tok(token.EqualEqual, "=="))
			} else {
				toks = append(toks, s.tok(token.Equal, string(s.ch)))
			}
		case '!':
			if s.peek() == '=' {
				s.next()
				toks = append(toks, s.tok(token.BangEqual, "!="))
			} else {
				toks = append(toks, s.tok(token.Bang, string(s.ch)))
			}
		case '<':
			if s.peek() == '=' {
				s.next()
				toks = append(toks, s.tok(token.LessEqual, "<="))
			} else {
				toks = append(toks, s.tok(token.Less, string(s.ch)))
			}
		case '>':
			if s.peek() == '=' {
				s.next()
				toks = append(toks, s.tok(token.GreaterEqual, ">="))
			} else {
				toks = append(toks, s.tok(token.Greater, string(s.ch)))
			}
		case '"':
			str, found := s.stringLiteral()
			if found {
				toks = append(toks, token.Token{
					Kind:    token.String,
					Lexeme:  str,
					Literal: strings.Trim(str, `"`),
					Line:    s.line,
				})
			}
		default:
			if isDigit(s.ch) {
				lexeme, literal := s.numberLiteral()
				toks = append(toks, token.Token{Kind: token.Number, Lexeme: lexeme, Literal: literal, Line: s.line})
			} else if isAlpha(s.ch) {
				ident := s.identifier()
				if kind, ok := token.Reserved[ident]; ok {
					toks = append(toks, s.tok(kind, ident))
				} else {
					toks = append(toks, s.tok(token.Identifier, ident))
				}
			} else {
				s.errs.ScanError(s.line, fmt.Sprintf("Unexpected character '%s'.", string(s.ch)))
			}
		}
	}

	toks = append(toks, token.Token{Kind: token.EOF, Line: s.line})
	return toks
}

func (s *Scanner) tok(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: s.line}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
