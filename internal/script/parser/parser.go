package parser

import (
	"errors"

	"github.com/pacer/smartscript/internal/script/lexer"
)

var (
	ErrMalformedTag      = errors.New("malformed tag")
	ErrMalformedFor      = errors.New("malformed FOR tag")
	ErrMalformedFunction = errors.New("malformed function reference")
	ErrUnmatchedEnd      = errors.New("END tag without an open FOR")
	ErrUnclosedFor       = errors.New("FOR tag never closed by END")
	ErrUnexpectedToken   = errors.New("unexpected token")
)

var _ lexer.Error = (*ParseError)(nil)

type ParseError struct {
	Err   error
	Range lexer.Range
	Token *lexer.Token
}

func (p ParseError) Error() string {
	return p.Err.Error()
}

func (p ParseError) Unwrap() error {
	return p.Err
}

func (p ParseError) GetError() string {
	return p.Err.Error()
}

func (p ParseError) GetRange() lexer.Range {
	return p.Range
}

// Parser drives a Lexer, switching its mode at tag boundaries, and builds the
// document tree. A Parser is single use.
type Parser struct {
	lex    *lexer.Lexer
	token  lexer.Token
	scopes *scopeStack
}

func New(text string) *Parser {
	return NewFromLexer(lexer.New(text))
}

// NewFromLexer creates a parser over an existing lexer, which must not have
// produced any token yet.
func NewFromLexer(lex *lexer.Lexer) *Parser {
	if lex == nil {
		panic("parser requires a non <nil> lexer")
	}

	return &Parser{lex: lex}
}

// Parse parses a whole document. On failure no tree is returned, and the
// error is either a *ParseError or the *lexer.LexerError that stopped lexing.
func Parse(text string) (*DocumentNode, error) {
	return New(text).Parse()
}

// Parse consumes the lexer up to Eof. Calling it a second time fails with
// lexer.ErrLexerExhausted.
func (p *Parser) Parse() (*DocumentNode, error) {
	p.scopes = newScopeStack()

	if err := p.advance(); err != nil {
		return nil, err
	}

	for {
		if p.lex.Mode() == lexer.ModeTag {
			if err := p.parseTag(); err != nil {
				return nil, err
			}

			p.lex.SetMode(lexer.ModeText)

			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		switch p.token.ID {
		case lexer.Eof:
			return p.finish()

		case lexer.OpenBrace:
			p.lex.SetMode(lexer.ModeTag)

		case lexer.Text:
			p.scopes.attach(NewTextNode(p.token.Value, p.token.Range))

			if err := p.advance(); err != nil {
				return nil, err
			}

		default:
			return nil, p.unexpected("expected document text")
		}
	}
}

func (p *Parser) finish() (*DocumentNode, error) {
	if open := p.scopes.innermost(); open != nil {
		err := NewParseError(p.token, ErrUnclosedFor)
		err.Range = open.Range()

		return nil, err
	}

	root := p.scopes.root()
	root.rng.End = p.token.Range.End

	return root, nil
}
