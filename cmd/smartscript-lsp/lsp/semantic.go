package lsp

import (
	"log/slog"

	"github.com/pacer/smartscript/internal/script/lexer"
)

// semanticToken is a lexer token together with its index in
// SemanticTokenTypes.
type semanticToken struct {
	lexer.Token
	kind int
}

// classifyTokens lexes text and keeps the tokens that have a semantic token
// type. Tokens spanning several lines are dropped. A lexer failure keeps the
// tokens read before it.
func classifyTokens(text string) []semanticToken {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		slog.Debug("semantic tokens stop at lexer error", slog.String("error", err.Error()))
	}

	classified := make([]semanticToken, 0, len(tokens))

	inTag := false
	afterAt := false

	for _, token := range tokens {
		kind := -1

		switch token.ID {
		case lexer.OpenBrace:
			inTag = true
		case lexer.CloseBrace:
			inTag = false
		case lexer.Keyword:
			kind = SemanticTokenKeyword
		case lexer.Variable:
			kind = SemanticTokenVariable
			if afterAt {
				kind = SemanticTokenFunction
			}
		case lexer.Integer, lexer.Double:
			kind = SemanticTokenNumber
		case lexer.Operator:
			kind = SemanticTokenOperator
		case lexer.Text:
			if inTag {
				kind = SemanticTokenString
			}
		}

		afterAt = token.ID == lexer.At

		if kind < 0 || token.Range.Start.Line != token.Range.End.Line {
			continue
		}

		classified = append(classified, semanticToken{Token: token, kind: kind})
	}

	return classified
}

// encodeSemanticTokens produces the relative five-integer encoding required
// by textDocument/semanticTokens, with columns in UTF-16 code units.
func encodeSemanticTokens(lines lineIndex, tokens []semanticToken) []uint {
	data := make([]uint, 0, 5*len(tokens))

	var prevLine, prevStart uint

	for _, token := range tokens {
		reach := lines.toLspRange(token.Range)
		line, start := reach.Start.Line, reach.Start.Character

		deltaStart := start
		if line == prevLine {
			deltaStart = start - prevStart
		}

		data = append(data,
			line-prevLine,
			deltaStart,
			reach.End.Character-start,
			intToUint(token.kind),
			0,
		)

		prevLine, prevStart = line, start
	}

	return data
}

// tokenAt returns the classified token under pos. A cursor placed right
// after a token still selects it.
func tokenAt(tokens []semanticToken, pos lexer.Position) (semanticToken, bool) {
	for _, token := range tokens {
		if token.Range.Contains(pos) || token.Range.End == pos {
			return token, true
		}
	}

	return semanticToken{}, false
}
