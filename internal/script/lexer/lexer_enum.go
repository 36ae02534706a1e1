package lexer

// ----------
// Lexer Kind
// ----------

const (
	Invalid Kind = iota // zero value, no token produced yet
	Eof
	Text
	Variable
	Integer
	Double
	Keyword
	Operator
	OpenBrace
	CloseBrace
	Dollar
	At
	Equals
)

// ----------
// Lexer Mode
// ----------

// Mode selects how the lexer reads the next token. It is switched by the
// parser at tag boundaries, never by the lexer itself.
type Mode int

const (
	ModeText Mode = iota
	ModeTag
)
