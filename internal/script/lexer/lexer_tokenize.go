package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// scanText reads free text up to the next unescaped '{'. A backslash protects
// the character after it; both are kept verbatim.
func (l *Lexer) scanText() Token {
	start := l.pos

	if l.atEnd() {
		return NewToken(Eof, Range{Start: start, End: start}, "")
	}

	if l.peek() == '{' {
		l.advance()
		return NewToken(OpenBrace, Range{Start: start, End: l.pos}, "{")
	}

	begin := l.index
	for !l.atEnd() && l.peek() != '{' {
		if l.peek() == '\\' {
			l.advance()
			if l.atEnd() {
				break
			}
		}
		l.advance()
	}

	text := l.src[begin:l.index]

	return NewToken(Text, Range{Start: start, End: l.pos}, text)
}

// scanTag reads one token inside a {$ ... $} tag.
func (l *Lexer) scanTag() (Token, *LexerError) {
	l.skipWhitespace()

	start := l.pos

	if l.atEnd() {
		return NewToken(Eof, Range{Start: start, End: start}, ""), nil
	}

	ch := l.peek()

	if id, ok := symbolKinds[ch]; ok {
		l.advance()
		return NewToken(id, Range{Start: start, End: l.pos}, string(ch)), nil
	}

	switch {
	case unicode.IsLetter(ch):
		return l.scanName(), nil

	case isDigit(ch):
		return l.scanNumber()

	case ch == '"':
		return l.scanString()

	case ch == '-' && isDigit(l.peekAt(1)):
		return l.scanNegativeInteger()

	case isOperator(ch):
		l.advance()
		return NewToken(Operator, Range{Start: start, End: l.pos}, string(ch)), nil
	}

	begin := l.index
	l.advance()

	symbol := l.src[begin:l.index]
	reach := Range{Start: start, End: l.pos}
	token := NewToken(Invalid, reach, symbol)
	err := fmt.Errorf("%w: %s", ErrInvalidSymbol, quoteSymbol(symbol))

	return Token{}, newLexerError(err, reach, &token)
}

// scanName reads a variable name or keyword: a letter followed by letters,
// digits and underscores.
func (l *Lexer) scanName() Token {
	start := l.pos
	begin := l.index

	l.advance()
	for !l.atEnd() && isNameChar(l.peek()) {
		l.advance()
	}

	name := l.src[begin:l.index]
	reach := Range{Start: start, End: l.pos}

	if IsKeyword(name) {
		return NewToken(Keyword, reach, name)
	}

	return NewToken(Variable, reach, name)
}

// scanNumber reads an integer, or a double when the digits are followed by '.'.
func (l *Lexer) scanNumber() (Token, *LexerError) {
	start := l.pos
	begin := l.index

	l.skipDigits()

	if !l.atEnd() && l.peek() == '.' {
		l.advance()
		l.skipDigits()

		numeral := l.src[begin:l.index]
		reach := Range{Start: start, End: l.pos}

		value, err := strconv.ParseFloat(numeral, 64)
		if err != nil {
			return Token{}, numberError(numeral, reach, err)
		}

		token := NewToken(Double, reach, numeral)
		token.Float = value

		return token, nil
	}

	return l.integerToken(begin, start)
}

// scanNegativeInteger reads '-' immediately followed by digits as a single
// signed integer. There is no such case for '+'.
func (l *Lexer) scanNegativeInteger() (Token, *LexerError) {
	start := l.pos
	begin := l.index

	l.advance() // skip '-'
	l.skipDigits()

	return l.integerToken(begin, start)
}

func (l *Lexer) integerToken(begin int, start Position) (Token, *LexerError) {
	numeral := l.src[begin:l.index]
	reach := Range{Start: start, End: l.pos}

	value, err := strconv.ParseInt(numeral, 10, 64)
	if err != nil {
		return Token{}, numberError(numeral, reach, err)
	}

	token := NewToken(Integer, reach, numeral)
	token.Int = value

	return token, nil
}

func numberError(numeral string, reach Range, cause error) *LexerError {
	var numErr *strconv.NumError
	if errors.As(cause, &numErr) {
		cause = numErr.Err
	}

	token := NewToken(Invalid, reach, numeral)
	err := fmt.Errorf("%w: number %q: %w", ErrMalformedLiteral, numeral, cause)

	return newLexerError(err, reach, &token)
}

// scanString reads a double-quoted literal. Escapes are kept verbatim; only
// the surrounding quotes are dropped.
func (l *Lexer) scanString() (Token, *LexerError) {
	start := l.pos

	l.advance() // skip opening quote
	begin := l.index

	for {
		if l.atEnd() {
			reach := Range{Start: start, End: l.pos}
			token := NewToken(Invalid, reach, l.src[begin:l.index])
			err := fmt.Errorf("%w: unterminated string", ErrMalformedLiteral)

			return Token{}, newLexerError(err, reach, &token)
		}

		ch := l.peek()
		if ch == '"' {
			break
		}

		if ch == '\\' {
			l.advance()
			if l.atEnd() {
				continue
			}
		}

		l.advance()
	}

	text := l.src[begin:l.index]
	l.advance() // skip closing quote

	return NewToken(Text, Range{Start: start, End: l.pos}, text), nil
}

// quoteSymbol renders a symbol for error messages, escaping it when it is
// not valid UTF-8.
func quoteSymbol(symbol string) string {
	if utf8.ValidString(symbol) {
		return "'" + symbol + "'"
	}

	return strconv.Quote(symbol)
}

var symbolKinds = map[rune]Kind{
	'{': OpenBrace,
	'}': CloseBrace,
	'$': Dollar,
	'@': At,
	'=': Equals,
}

func isOperator(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '^':
		return true
	}

	return false
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isNameChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	}

	return false
}
