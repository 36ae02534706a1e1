package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pacer/smartscript/internal/script/parser"
)

// Supported outline encodings.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// TreeNode is a plain description of one document node, meant for dumps.
type TreeNode struct {
	Kind     string        `yaml:"kind" json:"kind"`
	Range    string        `yaml:"range" json:"range"`
	Text     string        `yaml:"text,omitempty" json:"text,omitempty"`
	Variable string        `yaml:"variable,omitempty" json:"variable,omitempty"`
	Bounds   []int64       `yaml:"bounds,omitempty,flow" json:"bounds,omitempty"`
	Elements []TreeElement `yaml:"elements,omitempty" json:"elements,omitempty"`
	Children []*TreeNode   `yaml:"children,omitempty" json:"children,omitempty"`
}

type TreeElement struct {
	Kind string `yaml:"kind" json:"kind"`
	Text string `yaml:"text" json:"text"`
}

// Outline converts node and its descendants into TreeNode values. A nil node
// gives a nil outline.
func Outline(node parser.Node) *TreeNode {
	if node == nil {
		return nil
	}

	reach := node.Range()
	out := &TreeNode{
		Kind: node.Kind().String(),
		Range: fmt.Sprintf(
			"%d:%d-%d:%d",
			reach.Start.Line+1, reach.Start.Character+1,
			reach.End.Line+1, reach.End.Character+1,
		),
	}

	switch n := node.(type) {
	case *parser.TextNode:
		out.Text = n.Text

	case *parser.EchoNode:
		for _, element := range n.Elements() {
			out.Elements = append(out.Elements, TreeElement{
				Kind: element.Kind().String(),
				Text: element.AsText(),
			})
		}

	case *parser.ForLoopNode:
		out.Variable = n.Variable.Name
		out.Bounds = []int64{n.Start.Value, n.End.Value, n.Step.Value}
	}

	if container, ok := node.(parser.Container); ok {
		for i := range container.NumberOfChildren() {
			out.Children = append(out.Children, Outline(container.Child(i)))
		}
	}

	return out
}

// WriteOutline encodes the outline of node to w as YAML or JSON.
func WriteOutline(w io.Writer, node parser.Node, format string) error {
	outline := Outline(node)

	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(outline); err != nil {
			return fmt.Errorf("encoding outline as yaml: %w", err)
		}

		return encoder.Close()

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(outline); err != nil {
			return fmt.Errorf("encoding outline as json: %w", err)
		}

		return nil
	}

	return fmt.Errorf("unknown outline format %q", format)
}
