package parser

// ---------
// Node Kind
// ---------

type Kind int

const (
	KindDocument Kind = iota
	KindText
	KindEcho
	KindForLoop
)

// ------------
// Element Kind
// ------------

type ElementKind int

const (
	ElementVariable ElementKind = iota
	ElementConstantInteger
	ElementConstantDouble
	ElementFunction
	ElementOperator
	ElementStringLiteral
)
