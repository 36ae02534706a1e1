package parser

import (
	"fmt"
	"strings"
)

func (e ParseError) String() string {
	to := "\"\""
	err := "\"\""

	if e.Err != nil {
		err = e.Err.Error()
		err = strings.ReplaceAll(err, "\"", "'")
	}
	if e.Token != nil {
		to = e.Token.String()
	}

	return fmt.Sprintf(`{"Err": "%s", "Range": %s, "Token": %s}`, err, e.Range, to)
}

func (t TextNode) String() string {
	return fmt.Sprintf(`{"Kind": %s, "Range": %s, "Text": %q}`, KindText, t.rng, t.Text)
}

func (e EchoNode) String() string {
	texts := make([]string, 0, len(e.elements))
	for _, element := range e.elements {
		texts = append(texts, fmt.Sprintf("%q", element.AsText()))
	}

	return fmt.Sprintf(
		`{"Kind": %s, "Range": %s, "Elements": [%s]}`,
		KindEcho,
		e.rng,
		strings.Join(texts, ", "),
	)
}

func (f ForLoopNode) String() string {
	return fmt.Sprintf(
		`{"Kind": %s, "Range": %s, "Variable": %q, "Start": %d, "End": %d, "Step": %d, "Children": %s}`,
		KindForLoop,
		f.rng,
		f.Variable.Name,
		f.Start.Value,
		f.End.Value,
		f.Step.Value,
		formatChildren(f.nodes),
	)
}

func (d DocumentNode) String() string {
	return fmt.Sprintf(`{"Kind": %s, "Range": %s, "Children": %s}`, KindDocument, d.rng, formatChildren(d.nodes))
}

func formatChildren(nodes []Node) string {
	if len(nodes) == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteString("[")
	for i, child := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(child.String())
	}
	sb.WriteString("]")

	return sb.String()
}

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindText:
		return "Text"
	case KindEcho:
		return "Echo"
	case KindForLoop:
		return "ForLoop"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k ElementKind) String() string {
	switch k {
	case ElementVariable:
		return "Variable"
	case ElementConstantInteger:
		return "ConstantInteger"
	case ElementConstantDouble:
		return "ConstantDouble"
	case ElementFunction:
		return "Function"
	case ElementOperator:
		return "Operator"
	case ElementStringLiteral:
		return "StringLiteral"
	}

	return fmt.Sprintf("ElementKind(%d)", int(k))
}
