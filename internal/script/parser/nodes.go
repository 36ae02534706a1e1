package parser

import (
	"slices"

	"github.com/pacer/smartscript/internal/script/lexer"
)

// Node is one entry of the document tree. The set of variants is closed:
// *DocumentNode, *TextNode, *EchoNode and *ForLoopNode.
type Node interface {
	Kind() Kind
	Range() lexer.Range
	String() string
	node()
}

// Container is a node owning an ordered list of children: the document root
// and every for-loop.
type Container interface {
	Node
	Children() []Node
	NumberOfChildren() int
	Child(index int) Node
}

// scope is a Container the parser can attach children to.
type scope interface {
	Container
	appendChild(child Node)
}

// children implements the shared part of every Container.
type children struct {
	nodes []Node
}

// Children returns a copy of the child list, in document order.
func (c *children) Children() []Node {
	return slices.Clone(c.nodes)
}

func (c *children) NumberOfChildren() int {
	return len(c.nodes)
}

// Child panics when index is out of range.
func (c *children) Child(index int) Node {
	return c.nodes[index]
}

func (c *children) add(child Node) {
	if child == nil {
		panic("cannot add <nil> node to a container")
	}

	if child.Kind() == KindDocument {
		panic("document node cannot be nested inside another container")
	}

	c.nodes = append(c.nodes, child)
}

// -----------
// Leaf nodes
// -----------

// TextNode holds raw document text, original escape sequences included.
type TextNode struct {
	Text string
	rng  lexer.Range
}

func NewTextNode(text string, reach lexer.Range) *TextNode {
	return &TextNode{Text: text, rng: reach}
}

func (t *TextNode) Kind() Kind         { return KindText }
func (t *TextNode) Range() lexer.Range { return t.rng }
func (t *TextNode) node()              {}

// EchoNode is one {$= ... $} tag.
type EchoNode struct {
	elements []Element
	rng      lexer.Range
}

func NewEchoNode(elements []Element, reach lexer.Range) *EchoNode {
	return &EchoNode{elements: slices.Clone(elements), rng: reach}
}

// Elements returns a copy of the echoed elements, in source order.
func (e *EchoNode) Elements() []Element {
	return slices.Clone(e.elements)
}

func (e *EchoNode) Kind() Kind         { return KindEcho }
func (e *EchoNode) Range() lexer.Range { return e.rng }
func (e *EchoNode) node()              {}

// ----------------
// Container nodes
// ----------------

// ForLoopNode is a {$FOR var start end step $} ... {$END$} block. Its range
// spans from the FOR tag to the END tag.
type ForLoopNode struct {
	children

	Variable Variable
	Start    ConstantInteger
	End      ConstantInteger
	Step     ConstantInteger

	rng lexer.Range
}

func NewForLoopNode(variable Variable, start, end, step ConstantInteger, reach lexer.Range) *ForLoopNode {
	if variable.Name == "" {
		panic("for-loop node requires a loop variable")
	}

	return &ForLoopNode{
		Variable: variable,
		Start:    start,
		End:      end,
		Step:     step,
		rng:      reach,
	}
}

func (f *ForLoopNode) Kind() Kind         { return KindForLoop }
func (f *ForLoopNode) Range() lexer.Range { return f.rng }
func (f *ForLoopNode) node()              {}

func (f *ForLoopNode) appendChild(child Node) {
	f.add(child)
}

// DocumentNode is the root of every parsed document.
type DocumentNode struct {
	children

	rng lexer.Range
}

func NewDocumentNode() *DocumentNode {
	return &DocumentNode{}
}

func (d *DocumentNode) Kind() Kind         { return KindDocument }
func (d *DocumentNode) Range() lexer.Range { return d.rng }
func (d *DocumentNode) node()              {}

func (d *DocumentNode) appendChild(child Node) {
	d.add(child)
	d.rng.End = child.Range().End
}

// Inspect traverses the tree rooted at node in document order, calling f for
// each node. Children of a node are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	if container, ok := node.(Container); ok {
		for i := range container.NumberOfChildren() {
			Inspect(container.Child(i), f)
		}
	}
}
