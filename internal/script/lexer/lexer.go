package lexer

import (
	"errors"
	"fmt"
	"io"
)

// ----------------------
// Lexer Types definition
// ----------------------

type Position struct {
	Line      int
	Character int
}

// Range is half-open: Start is the first character of the token and End the
// position right after its last character.
type Range struct {
	Start Position
	End   Position
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}

	return p.Character < other.Character
}

func (r Range) Contains(pos Position) bool {
	if pos.Before(r.Start) {
		return false
	}

	return pos.Before(r.End)
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func EmptyRange() Range {
	return Range{}
}

type Kind int

// Token is one lexical unit. Value carries the string payload of every kind
// (text, name, keyword, symbol, numeral as written); Int and Float carry the
// numeric payload of Integer and Double tokens.
type Token struct {
	ID    Kind
	Range Range
	Value string
	Int   int64
	Float float64
}

func NewToken(id Kind, reach Range, val string) Token {
	return Token{
		ID:    id,
		Range: reach,
		Value: val,
	}
}

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrLexerExhausted   = errors.New("no more tokens")
	ErrInvalidSymbol    = errors.New("invalid symbol in tag")
	ErrMalformedLiteral = errors.New("malformed literal")
)

type LexerError struct {
	Err   error
	Range Range
	Token *Token
}

func (l LexerError) Error() string {
	return l.Err.Error()
}

func (l LexerError) Unwrap() error {
	return l.Err
}

func (l LexerError) GetError() string {
	return l.Err.Error()
}

func (l LexerError) GetRange() Range {
	return l.Range
}

// Error is implemented by every failure reported while lexing or parsing.
type Error interface {
	error
	GetError() string
	GetRange() Range
	String() string
}

func newLexerError(err error, reach Range, token *Token) *LexerError {
	return &LexerError{
		Err:   err,
		Range: reach,
		Token: token,
	}
}

// Lexer produces one token per NextToken call from an in-memory document.
// It is not safe for concurrent use; every parse owns its own Lexer.
// Token values are slices of the source, so invalid UTF-8 passes through
// unchanged; each invalid byte counts as one character in positions.
type Lexer struct {
	src   string
	index int // byte offset into src
	pos   Position
	mode  Mode
	token Token
	err   error
}

// New creates a lexer over text, starting in ModeText. Empty text is legal
// and yields a single Eof token.
func New(text string) *Lexer {
	return &Lexer{
		src:  text,
		mode: ModeText,
	}
}

// NewReader reads the whole of r and creates a lexer over it.
func NewReader(r io.Reader) (*Lexer, error) {
	if r == nil {
		return nil, newLexerError(
			fmt.Errorf("%w: reader must not be nil", ErrInvalidArgument),
			Range{},
			nil,
		)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return New(string(content)), nil
}

// Token returns the last token produced, without advancing.
func (l *Lexer) Token() Token {
	return l.token
}

func (l *Lexer) Mode() Mode {
	return l.mode
}

// SetMode must only be called between tokens.
func (l *Lexer) SetMode(mode Mode) {
	l.mode = mode
}

// NextToken scans and returns the next token. Asking for a token once Eof has
// been produced fails with ErrLexerExhausted. After any failure the lexer keeps
// returning that same error.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	if l.token.ID == Eof {
		l.err = newLexerError(ErrLexerExhausted, l.token.Range, nil)
		return Token{}, l.err
	}

	var (
		token Token
		err   *LexerError
	)

	if l.mode == ModeText {
		token = l.scanText()
	} else {
		token, err = l.scanTag()
	}

	if err != nil {
		l.err = err
		return Token{}, err
	}

	l.token = token

	return token, nil
}

// Tokenize lexes a whole document, switching to tag mode after every '{' and
// back to text mode after every '}'. The returned slice always ends with Eof
// unless an error is returned.
func Tokenize(text string) ([]Token, error) {
	lex := New(text)
	tokens := make([]Token, 0, 16)

	for {
		token, err := lex.NextToken()
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)

		switch token.ID {
		case Eof:
			return tokens, nil
		case OpenBrace:
			if lex.Mode() == ModeText {
				lex.SetMode(ModeTag)
			}
		case CloseBrace:
			lex.SetMode(ModeText)
		}
	}
}
