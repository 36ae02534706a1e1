package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pacer/smartscript/internal/script/lexer"
)

// tagHandler parses a keyword tag. The current token is the keyword; on
// success the current token is the tag's closing '}'.
type tagHandler func(p *Parser, start lexer.Position) error

// tagHandlers maps uppercased keywords to their parse handlers.
var tagHandlers = map[string]tagHandler{
	lexer.KeywordFor: (*Parser).parseForTag,
	lexer.KeywordEnd: (*Parser).parseEndTag,
}

// parseTag handles one "{$ ... $}" tag. The current token is the '{'.
func (p *Parser) parseTag() error {
	if !p.accept(lexer.OpenBrace) {
		return p.errorf(ErrMalformedTag, "expected '{' opening the tag, got %s", describe(p.token))
	}

	start := p.token.Range.Start

	if err := p.expect(lexer.Dollar, ErrMalformedTag, "expected '$' after '{'"); err != nil {
		return err
	}

	if err := p.advance(); err != nil {
		return err
	}

	switch p.token.ID {
	case lexer.Equals:
		return p.parseEchoTag(start)

	case lexer.Keyword:
		handler, ok := tagHandlers[strings.ToUpper(p.token.Value)]
		if !ok {
			return p.errorf(ErrMalformedTag, "unknown keyword %q", p.token.Value)
		}

		return handler(p, start)
	}

	return p.errorf(ErrMalformedTag, "expected '=' or a keyword, got %s", describe(p.token))
}

// parseForTag reads "FOR <variable> <int> <int> <int> $}" and opens a new scope.
func (p *Parser) parseForTag(start lexer.Position) error {
	if err := p.expect(lexer.Variable, ErrMalformedFor, "expected loop variable"); err != nil {
		return err
	}

	variable := Variable{Name: p.token.Value}

	var bounds [3]ConstantInteger
	for i := range bounds {
		if err := p.advance(); err != nil {
			return err
		}

		bound, err := p.forBound()
		if err != nil {
			return err
		}

		bounds[i] = bound
	}

	if err := p.expectTagClose(ErrMalformedFor); err != nil {
		return err
	}

	reach := lexer.Range{Start: start, End: p.token.Range.End}
	p.scopes.open(NewForLoopNode(variable, bounds[0], bounds[1], bounds[2], reach))

	return nil
}

// forBound accepts an integer token, or a quoted literal holding a base-10
// integer such as "100" or "-5".
func (p *Parser) forBound() (ConstantInteger, error) {
	switch p.token.ID {
	case lexer.Integer:
		return ConstantInteger{Value: p.token.Int}, nil

	case lexer.Text:
		value, err := strconv.ParseInt(p.token.Value, 10, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}

			return ConstantInteger{}, p.errorf(ErrMalformedFor, "bound %q is not an integer: %w", p.token.Value, err)
		}

		return ConstantInteger{Value: value}, nil
	}

	return ConstantInteger{}, p.errorf(ErrMalformedFor, "expected integer bound, got %s", describe(p.token))
}

// parseEndTag reads "END $}" and closes the innermost for-loop.
func (p *Parser) parseEndTag(start lexer.Position) error {
	keyword := p.token

	if err := p.expectTagClose(ErrMalformedTag); err != nil {
		return err
	}

	if _, ok := p.scopes.close(p.token.Range.End); !ok {
		err := NewParseError(keyword, ErrUnmatchedEnd)
		err.Range = lexer.Range{Start: start, End: p.token.Range.End}

		return err
	}

	return nil
}

// parseEchoTag reads "= <element>... $}" and attaches an echo node. The
// current token is the '='.
func (p *Parser) parseEchoTag(start lexer.Position) error {
	var elements []Element

	for {
		if err := p.advance(); err != nil {
			return err
		}

		switch p.token.ID {
		case lexer.Variable:
			elements = append(elements, Variable{Name: p.token.Value})

		case lexer.Integer:
			elements = append(elements, ConstantInteger{Value: p.token.Int})

		case lexer.Double:
			elements = append(elements, ConstantDouble{Value: p.token.Float})

		case lexer.Text:
			elements = append(elements, StringLiteral{Value: p.token.Value})

		case lexer.Operator:
			elements = append(elements, Operator{Symbol: p.token.Value})

		case lexer.At:
			if err := p.expect(lexer.Variable, ErrMalformedFunction, "expected function name after '@'"); err != nil {
				return err
			}

			elements = append(elements, Function{Name: p.token.Value})

		case lexer.Dollar:
			if err := p.expect(lexer.CloseBrace, ErrMalformedTag, "expected '}' after '$'"); err != nil {
				return err
			}

			reach := lexer.Range{Start: start, End: p.token.Range.End}
			p.scopes.attach(NewEchoNode(elements, reach))

			return nil

		default:
			return p.unexpected("expected an echo element or '$}'")
		}
	}
}
