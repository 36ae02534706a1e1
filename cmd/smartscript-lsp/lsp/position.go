package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pacer/smartscript/internal/script/lexer"
)

// lineIndex maps lexer positions, counted in characters, to LSP positions,
// counted in UTF-16 code units, and back. Invalid UTF-8 bytes count as one
// unit, like the replacement character editors show for them.
type lineIndex []string

func newLineIndex(text string) lineIndex {
	return strings.Split(text, "\n")
}

func utf16Len(ch rune) int {
	if n := utf16.RuneLen(ch); n > 0 {
		return n
	}
	return 1
}

// toLsp converts pos. Characters past the end of the line count one unit
// each.
func (li lineIndex) toLsp(pos lexer.Position) Position {
	units := pos.Character

	if pos.Line >= 0 && pos.Line < len(li) {
		text := li[pos.Line]
		units = 0

		for i := 0; i < pos.Character; i++ {
			if text == "" {
				units += pos.Character - i
				break
			}

			ch, size := utf8.DecodeRuneInString(text)
			text = text[size:]
			units += utf16Len(ch)
		}
	}

	return Position{Line: intToUint(pos.Line), Character: intToUint(units)}
}

// fromLsp converts pos. An offset inside a surrogate pair resolves to the
// character holding it.
func (li lineIndex) fromLsp(pos Position) lexer.Position {
	line, target := uintToInt(pos.Line), uintToInt(pos.Character)
	if line >= len(li) {
		return lexer.Position{Line: line, Character: target}
	}

	text := li[line]
	character, units := 0, 0

	for text != "" {
		ch, size := utf8.DecodeRuneInString(text)

		width := utf16Len(ch)
		if units+width > target {
			return lexer.Position{Line: line, Character: character}
		}

		units += width
		text = text[size:]
		character++
	}

	return lexer.Position{Line: line, Character: character + target - units}
}

func (li lineIndex) toLspRange(reach lexer.Range) Range {
	return Range{
		Start: li.toLsp(reach.Start),
		End:   li.toLsp(reach.End),
	}
}
