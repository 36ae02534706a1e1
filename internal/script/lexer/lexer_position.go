package lexer

import "unicode/utf8"

func (l *Lexer) atEnd() bool {
	return l.index >= len(l.src)
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the character 'offset' characters ahead, or 0 past the end.
func (l *Lexer) peekAt(offset int) rune {
	index := l.index

	for range offset {
		if index >= len(l.src) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(l.src[index:])
		index += size
	}

	if index >= len(l.src) {
		return 0
	}

	ch, _ := utf8.DecodeRuneInString(l.src[index:])

	return ch
}

// advance consumes one character and keeps the line/character position in
// sync. Only '\n' starts a new line.
func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}

	ch, size := utf8.DecodeRuneInString(l.src[l.index:])

	if ch == '\n' {
		l.pos.Line++
		l.pos.Character = 0
	} else {
		l.pos.Character++
	}

	l.index += size
}

func (l *Lexer) skipDigits() {
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.peek()) {
		l.advance()
	}
}

// PositionAt converts a character offset inside text into a line/character
// position, using the same line and character rules as the lexer.
func PositionAt(text string, offset int) Position {
	var pos Position

	for i := 0; len(text) > 0; i++ {
		if i == offset {
			break
		}

		ch, size := utf8.DecodeRuneInString(text)
		text = text[size:]

		if ch == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
	}

	return pos
}
