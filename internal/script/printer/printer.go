// Package printer turns a parsed document tree back into template text.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/pacer/smartscript/internal/script/parser"
)

// Serialize rebuilds template text from the children of a document or
// for-loop node. Tags are written in canonical form, so the output is stable
// under re-parsing but not necessarily identical to the original source.
// A nil node, or one without children, serializes to "".
func Serialize(node parser.Node) string {
	container, ok := node.(parser.Container)
	if !ok {
		return ""
	}

	var sb strings.Builder
	writeChildren(&sb, container)

	return sb.String()
}

// Fprint writes the serialized form of node to w.
func Fprint(w io.Writer, node parser.Node) error {
	_, err := io.WriteString(w, Serialize(node))
	return err
}

func writeChildren(sb *strings.Builder, container parser.Container) {
	for i := range container.NumberOfChildren() {
		switch child := container.Child(i).(type) {
		case *parser.TextNode:
			sb.WriteString(child.Text)

		case *parser.EchoNode:
			writeEcho(sb, child)

		case *parser.ForLoopNode:
			writeForHeader(sb, child)
			writeChildren(sb, child)
			sb.WriteString("{$END$}")

		default:
			panic(fmt.Sprintf("unexpected node type %T inside a container", child))
		}
	}
}

// writeForHeader writes "{$FOR <var> <start> <end> <step> $}".
func writeForHeader(sb *strings.Builder, loop *parser.ForLoopNode) {
	sb.WriteString("{$FOR ")
	sb.WriteString(loop.Variable.AsText())

	for _, bound := range []parser.ConstantInteger{loop.Start, loop.End, loop.Step} {
		sb.WriteByte(' ')
		sb.WriteString(bound.AsText())
	}

	sb.WriteString(" $}")
}

// writeEcho writes "{$= " followed by every element and a space, then "$}".
func writeEcho(sb *strings.Builder, echo *parser.EchoNode) {
	sb.WriteString("{$= ")

	for _, element := range echo.Elements() {
		sb.WriteString(element.AsText())
		sb.WriteByte(' ')
	}

	sb.WriteString("$}")
}
