package lexer

import "strings"

// Tag keywords used by both lexer and parser.
const (
	KeywordFor = "FOR"
	KeywordEnd = "END"
)

var keywords = map[string]bool{
	KeywordFor: true,
	KeywordEnd: true,
}

// IsKeyword reports whether name is a reserved tag keyword. Matching is
// case-insensitive.
func IsKeyword(name string) bool {
	return keywords[strings.ToUpper(name)]
}
