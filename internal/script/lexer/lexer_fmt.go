package lexer

import (
	"fmt"
	"strings"
)

func (e LexerError) String() string {
	token := `""`
	if e.Token != nil {
		token = e.Token.String()
	}

	return fmt.Sprintf(
		`{ "Err": %q, "Range": %s, "Token": %s }`,
		e.Err.Error(),
		e.Range,
		token,
	)
}

func (p Position) String() string {
	return fmt.Sprintf("{ \"Line\": %d, \"Character\": %d }", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("{ \"Start\": %s, \"End\": %s }", r.Start, r.End)
}

func (t Token) String() string {
	return fmt.Sprintf(
		"{ \"ID\": \"%s\", \"Range\": %s, \"Value\": %q }",
		t.ID,
		t.Range,
		t.Value,
	)
}

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Eof:
		return "Eof"
	case Text:
		return "Text"
	case Variable:
		return "Variable"
	case Integer:
		return "Integer"
	case Double:
		return "Double"
	case Keyword:
		return "Keyword"
	case Operator:
		return "Operator"
	case OpenBrace:
		return "OpenBrace"
	case CloseBrace:
		return "CloseBrace"
	case Dollar:
		return "Dollar"
	case At:
		return "At"
	case Equals:
		return "Equals"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "TEXT"
	case ModeTag:
		return "TAG"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// PrettyFormater converts an array of Stringer elements to a formatted string.
func PrettyFormater[T fmt.Stringer](arr []T) string {
	if len(arr) == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteString("[")
	for i, el := range arr {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(el.String())
	}
	sb.WriteString("]")

	return sb.String()
}
