package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pacer/smartscript/internal/script/parser"
)

const sampleDocument = "This is . \"sample\" \\ text.\r\n" +
	"{$ FOR i_0 -1 \"100\" 1 $}\r\n" +
	" This is {$= i 22.03 \"Joe \\\"Long\\\" Smith\" $}-th time this message is generated.\r\n" +
	"{$END$}\r\n" +
	"{$FOR i 0 10 2 $}\r\n" +
	" sin({$=i$}^2) = {$= i 2.301AG+3 i * @sin \"0.000\" @decfmt $}\r\n" +
	"{$END$}"

func mustParse(t *testing.T, source string) *parser.DocumentNode {
	t.Helper()

	root, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}

	return root
}

func TestSerialize_NoChildren(t *testing.T) {
	tests := []struct {
		name string
		node parser.Node
	}{
		{"nil node", nil},
		{"text node", parser.NewTextNode("abc", parser.NewDocumentNode().Range())},
		{"empty document", parser.NewDocumentNode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.node); got != "" {
				t.Errorf("Expected empty text, got %q", got)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "text is kept verbatim",
			source: "This is . \"sample\" \\ text.\r\n",
			want:   "This is . \"sample\" \\ text.\r\n",
		},
		{
			name:   "for with echo",
			source: "{$FOR i 1 10 1$}{$=i$}{$END$}",
			want:   "{$FOR i 1 10 1 $}{$= i $}{$END$}",
		},
		{
			name:   "echo elements",
			source: `{$=   i 22.03 "a \"b\"" @sin * -2 3.$}`,
			want:   `{$= i 22.03 "a \"b\"" @sin * -2 3.0 $}`,
		},
		{
			name:   "empty echo",
			source: "{$=$}",
			want:   "{$= $}",
		},
		{
			name:   "quoted bounds become integers",
			source: `{$ for k "-5" "100" 2 $}x{$ end $}`,
			want:   "{$FOR k -5 100 2 $}x{$END$}",
		},
		{
			name:   "nested",
			source: "a{$FOR i 1 2 1$}b{$FOR j 3 4 5$}c{$END$}d{$END$}e",
			want:   "a{$FOR i 1 2 1 $}b{$FOR j 3 4 5 $}c{$END$}d{$END$}e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(mustParse(t, tt.source))
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerialize_ForLoopSerializesBody(t *testing.T) {
	root := mustParse(t, "{$FOR i 1 2 1$}body{$=i$}{$END$}")

	if got := Serialize(root.Child(0)); got != "body{$= i $}" {
		t.Errorf("Expected loop body only, got %q", got)
	}
}

func TestSerialize_Idempotent(t *testing.T) {
	documents := []string{
		sampleDocument,
		"",
		"plain",
		"{$FOR i 1 10 1$}{$=i$}{$END$}",
		"{$= 1.5 0.1 100000000000000000000.0 $}",
		`a \{ {$= "\\" "x\ny" $} \ `,
	}

	for _, document := range documents {
		first := Serialize(mustParse(t, document))
		second := Serialize(mustParse(t, first))

		if first != second {
			t.Errorf("Serialization is not stable for %q:\n first: %q\nsecond: %q", document, first, second)
		}
	}
}

func TestSerialize_SampleDocument(t *testing.T) {
	root := mustParse(t, sampleDocument)

	if root.NumberOfChildren() != 4 {
		t.Fatalf("Expected 4 top-level nodes, got %d", root.NumberOfChildren())
	}

	got := Serialize(root)
	if !strings.Contains(got, "{$FOR i_0 -1 100 1 $}") {
		t.Errorf("Expected canonical FOR header, got %q", got)
	}

	if !strings.Contains(got, `{$= i 2.301 AG + 3 i * @sin "0.000" @decfmt $}`) {
		t.Errorf("Expected canonical echo tag, got %q", got)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer

	if err := Fprint(&buf, mustParse(t, "x{$=y$}")); err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}

	if buf.String() != "x{$= y $}" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestOutline(t *testing.T) {
	root := mustParse(t, "a{$FOR i 1 10 2$}{$= i @sin $}{$END$}")

	outline := Outline(root)
	if outline.Kind != "Document" || len(outline.Children) != 2 {
		t.Fatalf("Unexpected document outline: %+v", outline)
	}

	loop := outline.Children[1]
	if loop.Kind != "ForLoop" || loop.Variable != "i" {
		t.Errorf("Unexpected loop outline: %+v", loop)
	}

	if len(loop.Bounds) != 3 || loop.Bounds[0] != 1 || loop.Bounds[1] != 10 || loop.Bounds[2] != 2 {
		t.Errorf("Unexpected bounds: %v", loop.Bounds)
	}

	echo := loop.Children[0]
	want := []TreeElement{{Kind: "Variable", Text: "i"}, {Kind: "Function", Text: "@sin"}}
	if len(echo.Elements) != len(want) || echo.Elements[0] != want[0] || echo.Elements[1] != want[1] {
		t.Errorf("Unexpected echo elements: %+v", echo.Elements)
	}

	if outline.Children[0].Range != "1:1-1:2" {
		t.Errorf("Expected 1-based range 1:1-1:2, got %q", outline.Children[0].Range)
	}

	if Outline(nil) != nil {
		t.Error("Expected <nil> outline for <nil> node")
	}
}

func TestWriteOutline(t *testing.T) {
	root := mustParse(t, "a{$FOR i 1 10 2$}{$= i $}{$END$}")

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOutline(&buf, root, FormatYAML); err != nil {
			t.Fatalf("WriteOutline failed: %v", err)
		}

		var decoded TreeNode
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Output is not valid yaml: %v\n%s", err, buf.String())
		}

		if decoded.Kind != "Document" || len(decoded.Children) != 2 || decoded.Children[1].Variable != "i" {
			t.Errorf("Unexpected decoded outline: %+v", decoded)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOutline(&buf, root, FormatJSON); err != nil {
			t.Fatalf("WriteOutline failed: %v", err)
		}

		var decoded TreeNode
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Output is not valid json: %v\n%s", err, buf.String())
		}

		if len(decoded.Children) != 2 || len(decoded.Children[1].Bounds) != 3 {
			t.Errorf("Unexpected decoded outline: %+v", decoded)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := WriteOutline(&bytes.Buffer{}, root, "xml"); err == nil {
			t.Error("Expected error for unknown format")
		}
	})
}
