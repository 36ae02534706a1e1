package parser

import (
	"strconv"
	"strings"
)

// Element is one leaf value inside an echo tag. The set of variants is closed:
// Variable, ConstantInteger, ConstantDouble, Function, Operator and
// StringLiteral.
type Element interface {
	Kind() ElementKind
	// AsText returns the canonical source form of the element.
	AsText() string
	element()
}

type Variable struct {
	Name string
}

type ConstantInteger struct {
	Value int64
}

type ConstantDouble struct {
	Value float64
}

// Function is a '@name' reference.
type Function struct {
	Name string
}

type Operator struct {
	Symbol string
}

// StringLiteral holds the raw content of a quoted literal, escapes included.
type StringLiteral struct {
	Value string
}

func (Variable) Kind() ElementKind        { return ElementVariable }
func (ConstantInteger) Kind() ElementKind { return ElementConstantInteger }
func (ConstantDouble) Kind() ElementKind  { return ElementConstantDouble }
func (Function) Kind() ElementKind        { return ElementFunction }
func (Operator) Kind() ElementKind        { return ElementOperator }
func (StringLiteral) Kind() ElementKind   { return ElementStringLiteral }

func (v Variable) AsText() string {
	return v.Name
}

func (c ConstantInteger) AsText() string {
	return strconv.FormatInt(c.Value, 10)
}

// AsText renders the value in plain decimal notation and always keeps a
// decimal point, so the text lexes back to a double.
func (c ConstantDouble) AsText() string {
	text := strconv.FormatFloat(c.Value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}

	return text
}

func (f Function) AsText() string {
	return "@" + f.Name
}

func (o Operator) AsText() string {
	return o.Symbol
}

func (s StringLiteral) AsText() string {
	return `"` + s.Value + `"`
}

func (Variable) element()        {}
func (ConstantInteger) element() {}
func (ConstantDouble) element()  {}
func (Function) element()        {}
func (Operator) element()        {}
func (StringLiteral) element()   {}
