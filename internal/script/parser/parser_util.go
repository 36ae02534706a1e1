package parser

import (
	"fmt"

	"github.com/pacer/smartscript/internal/script/lexer"
)

// advance moves to the next token. Lexer errors are returned untouched.
func (p *Parser) advance() error {
	token, err := p.lex.NextToken()
	if err != nil {
		return err
	}

	p.token = token

	return nil
}

func (p *Parser) accept(kind lexer.Kind) bool {
	return p.token.ID == kind
}

// expect advances and checks the new token is of the given kind. On mismatch
// the returned error wraps sentinel.
func (p *Parser) expect(kind lexer.Kind, sentinel error, context string) error {
	if err := p.advance(); err != nil {
		return err
	}

	if !p.accept(kind) {
		return p.errorf(sentinel, "%s, got %s", context, describe(p.token))
	}

	return nil
}

// expectTagClose consumes the closing "$}" of a tag. A missing '$' wraps
// sentinel, a missing '}' after it is always ErrMalformedTag.
func (p *Parser) expectTagClose(sentinel error) error {
	if err := p.expect(lexer.Dollar, sentinel, "expected '$' closing the tag"); err != nil {
		return err
	}

	return p.expect(lexer.CloseBrace, ErrMalformedTag, "expected '}' after '$'")
}

func (p *Parser) errorf(sentinel error, format string, args ...any) *ParseError {
	err := fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)

	return NewParseError(p.token, err)
}

func (p *Parser) unexpected(context string) *ParseError {
	return p.errorf(ErrUnexpectedToken, "%s, got %s", context, describe(p.token))
}

func NewParseError(token lexer.Token, err error) *ParseError {
	return &ParseError{
		Err:   err,
		Range: token.Range,
		Token: &token,
	}
}

// describe names a token for error messages.
func describe(token lexer.Token) string {
	if token.ID == lexer.Eof {
		return "end of input"
	}

	return fmt.Sprintf("%s %q", token.ID, token.Value)
}
