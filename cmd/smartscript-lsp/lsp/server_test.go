package lsp

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pacer/smartscript/internal/config"
	"github.com/pacer/smartscript/internal/script/testutil"
)

const testURI = "file:///workspace/doc.sscr"

// session runs a server over the given messages and returns every message
// it wrote, decoded.
func session(t *testing.T, cfg *config.Config, messages ...string) []map[string]any {
	t.Helper()

	var input bytes.Buffer
	for _, message := range messages {
		input.Write(Encode([]byte(message)))
	}

	var output bytes.Buffer
	server := NewServer("test server", "1.0", &output, cfg)

	if err := server.Serve(&input); err != nil {
		t.Fatalf("Serve returned %v", err)
	}

	var replies []map[string]any

	scanner := ReceiveInput(&output)
	for scanner.Scan() {
		var reply map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &reply); err != nil {
			t.Fatalf("Server wrote invalid JSON %q: %v", scanner.Text(), err)
		}
		replies = append(replies, reply)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Server wrote malformed frames: %v", err)
	}

	return replies
}

func request(id any, method string, params any) string {
	message := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		message["params"] = params
	}

	content, _ := json.Marshal(message)
	return string(content)
}

func notification(method string, params any) string {
	content, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
	return string(content)
}

func didOpen(uri, text string) string {
	return notification(MethodDidOpen, map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "smartscript", "version": 1, "text": text},
	})
}

func position(uri string, line, character int) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	}
}

func textDocument(uri string) map[string]any {
	return map[string]any{"textDocument": map[string]any{"uri": uri}}
}

// lookup walks a decoded JSON value along keys and indexes.
func lookup(t *testing.T, value any, path ...any) any {
	t.Helper()

	for _, step := range path {
		switch key := step.(type) {
		case string:
			object, ok := value.(map[string]any)
			if !ok {
				t.Fatalf("Expected an object at %q, got %v", key, value)
			}
			value = object[key]
		case int:
			list, ok := value.([]any)
			if !ok || key >= len(list) {
				t.Fatalf("Expected a list with index %d, got %v", key, value)
			}
			value = list[key]
		}
	}

	return value
}

func TestInitialize(t *testing.T) {
	replies := session(t, nil,
		request(1, MethodInitialize, map[string]any{"processId": 1, "clientInfo": map[string]any{"name": "editor"}}),
		notification(MethodInitialized, map[string]any{}),
	)

	if len(replies) != 1 {
		t.Fatalf("Expected one reply, got %v", replies)
	}

	reply := replies[0]

	if lookup(t, reply, "id") != float64(1) {
		t.Errorf("Expected id 1, got %v", reply["id"])
	}

	capabilities := lookup(t, reply, "result", "capabilities")
	if lookup(t, capabilities, "textDocumentSync") != float64(TextDocumentSyncFull) {
		t.Errorf("Expected full sync, got %v", capabilities)
	}

	for _, provider := range []string{"hoverProvider", "foldingRangeProvider", "documentHighlightProvider"} {
		if lookup(t, capabilities, provider) != true {
			t.Errorf("Expected %s to be advertised", provider)
		}
	}

	if lookup(t, reply, "result", "serverInfo", "name") != "test server" {
		t.Errorf("Unexpected server info %v", lookup(t, reply, "result", "serverInfo"))
	}
}

func TestDiagnosticsLifecycle(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "fine"),
		notification(MethodDidChange, map[string]any{
			"textDocument":   map[string]any{"uri": testURI, "version": 2},
			"contentChanges": []any{map[string]any{"text": "line\n{$FOR i 1 2 1$}"}},
		}),
		notification(MethodDidChange, map[string]any{
			"textDocument":   map[string]any{"uri": testURI, "version": 3},
			"contentChanges": []any{},
		}),
		notification(MethodDidClose, textDocument(testURI)),
	)

	if len(replies) != 3 {
		t.Fatalf("Expected three diagnostics notifications, got %d: %v", len(replies), replies)
	}

	for _, reply := range replies {
		if reply["method"] != MethodPublishDiagnostics {
			t.Errorf("Unexpected message %v", reply)
		}

		if lookup(t, reply, "params", "uri") != testURI {
			t.Errorf("Unexpected uri in %v", reply)
		}
	}

	if diagnostics := lookup(t, replies[0], "params", "diagnostics").([]any); len(diagnostics) != 0 {
		t.Errorf("Expected no diagnostics for a valid document, got %v", diagnostics)
	}

	diagnostics := lookup(t, replies[1], "params", "diagnostics").([]any)
	if len(diagnostics) != 1 {
		t.Fatalf("Expected exactly one diagnostic, got %v", diagnostics)
	}

	if lookup(t, diagnostics, 0, "severity") != float64(SeverityError) {
		t.Errorf("Expected error severity, got %v", diagnostics[0])
	}

	if lookup(t, diagnostics, 0, "range", "start", "line") != float64(1) {
		t.Errorf("Expected the diagnostic on line 1, got %v", diagnostics[0])
	}

	message, _ := lookup(t, diagnostics, 0, "message").(string)
	if !strings.Contains(message, "FOR tag never closed") {
		t.Errorf("Unexpected message %q", message)
	}

	if diagnostics := lookup(t, replies[2], "params", "diagnostics").([]any); len(diagnostics) != 0 {
		t.Errorf("Expected close to clear diagnostics, got %v", diagnostics)
	}
}

func TestDiagnostics_UTF16Columns(t *testing.T) {
	replies := session(t, nil, didOpen(testURI, "😀{$= # $}"))

	if len(replies) != 1 {
		t.Fatalf("Expected one notification, got %v", replies)
	}

	start := lookup(t, replies[0], "params", "diagnostics", 0, "range", "start", "character")
	if start != float64(6) {
		t.Errorf("Expected the diagnostic after the surrogate pair, got %v", start)
	}
}

func TestHover(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "ab{$= x 1 $}"),
		request(2, MethodHover, position(testURI, 0, 7)),
		request(3, MethodHover, position(testURI, 0, 1)),
		request(4, MethodHover, position("file:///unknown.sscr", 0, 0)),
	)

	if len(replies) != 4 {
		t.Fatalf("Expected four messages, got %v", replies)
	}

	value, _ := lookup(t, replies[1], "result", "contents", "value").(string)
	if !strings.Contains(value, "**echo** tag") || !strings.Contains(value, "`x`") {
		t.Errorf("Unexpected echo hover %q", value)
	}

	if lookup(t, replies[1], "result", "range", "start", "character") != float64(2) {
		t.Errorf("Expected hover range to start at the tag, got %v", lookup(t, replies[1], "result", "range"))
	}

	value, _ = lookup(t, replies[2], "result", "contents", "value").(string)
	if !strings.Contains(value, "text, 2 characters") {
		t.Errorf("Unexpected text hover %q", value)
	}

	if result, present := replies[3]["result"]; !present || result != nil {
		t.Errorf("Expected a null result for an unknown document, got %v", replies[3])
	}
}

func TestFoldingRange(t *testing.T) {
	text := "{$FOR i 1 3 1$}\n  {$FOR j 1 2 1$}x{$END$}\n{$END$}"

	replies := session(t, nil,
		didOpen(testURI, text),
		request(5, MethodFoldingRange, textDocument(testURI)),
	)

	folds, ok := lookup(t, replies[1], "result").([]any)
	if !ok || len(folds) != 2 {
		t.Fatalf("Expected two folding ranges, got %v", replies[1])
	}

	tests := []struct {
		index     int
		startLine float64
		endLine   float64
	}{
		{0, 0, 1},
		{1, 1, 1},
	}

	for _, tt := range tests {
		fold := folds[tt.index]
		if lookup(t, fold, "startLine") != tt.startLine || lookup(t, fold, "endLine") != tt.endLine {
			t.Errorf("Fold %d: expected lines %v-%v, got %v", tt.index, tt.startLine, tt.endLine, fold)
		}

		if lookup(t, fold, "kind") != string(FoldingRangeRegion) {
			t.Errorf("Fold %d: expected region kind, got %v", tt.index, fold)
		}
	}
}

func TestFoldingRange_UnparsableDocument(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "{$END$}"),
		request(6, MethodFoldingRange, textDocument(testURI)),
	)

	folds, ok := lookup(t, replies[1], "result").([]any)
	if !ok || len(folds) != 0 {
		t.Errorf("Expected an empty list, got %v", replies[1])
	}
}

func TestDocumentHighlight(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "{$FOR i 1 2 1$}{$= i j i $}{$END$}"),
		request(7, MethodDocumentHighlight, position(testURI, 0, 6)),
		request(8, MethodDocumentHighlight, position(testURI, 0, 2)),
	)

	highlights, ok := lookup(t, replies[1], "result").([]any)
	if !ok || len(highlights) != 3 {
		t.Fatalf("Expected three highlights of i, got %v", replies[1])
	}

	if replies[2]["result"] != nil {
		t.Errorf("Keywords must not be highlighted, got %v", replies[2])
	}
}

func TestDocumentHighlight_UTF16Columns(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "😀{$= x x $}"),
		request(7, MethodDocumentHighlight, position(testURI, 0, 6)),
	)

	highlights, ok := lookup(t, replies[1], "result").([]any)
	if !ok || len(highlights) != 2 {
		t.Fatalf("Expected two highlights of x, got %v", replies[1])
	}

	for i, character := range []float64{6, 8} {
		if got := lookup(t, highlights, i, "range", "start", "character"); got != character {
			t.Errorf("highlight %d: expected start %v, got %v", i, character, got)
		}
	}
}

func TestSemanticTokensRequest(t *testing.T) {
	replies := session(t, nil,
		didOpen(testURI, "{$= x $}"),
		request(9, MethodSemanticTokensFull, textDocument(testURI)),
		request(10, MethodSemanticTokensFull, textDocument("file:///unknown.sscr")),
	)

	data, ok := lookup(t, replies[1], "result", "data").([]any)
	if !ok || len(data) != 5 {
		t.Fatalf("Expected one encoded token, got %v", replies[1])
	}

	data, ok = lookup(t, replies[2], "result", "data").([]any)
	if !ok || len(data) != 0 {
		t.Errorf("Expected an empty token list, got %v", replies[2])
	}
}

func TestShutdown(t *testing.T) {
	replies := session(t, nil,
		request(1, MethodShutdown, nil),
		request(2, MethodHover, position(testURI, 0, 0)),
		didOpen(testURI, "ignored"),
		notification(MethodExit, nil),
		request(3, MethodHover, position(testURI, 0, 0)),
	)

	if len(replies) != 2 {
		t.Fatalf("Expected a shutdown reply and one error, got %v", replies)
	}

	if result, present := replies[0]["result"]; !present || result != nil {
		t.Errorf("Expected a null shutdown result, got %v", replies[0])
	}

	if lookup(t, replies[1], "error", "code") != float64(ErrorInvalidRequest) {
		t.Errorf("Expected invalid request error, got %v", replies[1])
	}
}

func TestRequestIDs(t *testing.T) {
	replies := session(t, nil,
		request("abc", MethodShutdown, nil),
		request("7", MethodHover, position(testURI, 0, 0)),
		request(8.5, MethodHover, position(testURI, 0, 0)),
		`{"jsonrpc":"2.0","id":{"x":1},"method":"shutdown"}`,
	)

	if len(replies) != 3 {
		t.Fatalf("Expected three replies, got %v", replies)
	}

	for i, id := range []any{"abc", "7", 8.5} {
		if replies[i]["id"] != id {
			t.Errorf("reply %d: expected id %#v, got %#v", i, id, replies[i]["id"])
		}
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"number", `42`, `42`, false},
		{"string", `"req-1"`, `"req-1"`, false},
		{"numeric string", `"42"`, `"42"`, false},
		{"object", `{"a":1}`, ``, true},
		{"boolean", `true`, ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID

			err := json.Unmarshal([]byte(tt.data), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}

			if tt.wantErr {
				return
			}

			content, err := json.Marshal(id)
			testutil.AssertNoError(t, err)

			if string(content) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, content)
			}
		})
	}
}

func TestUnknownMethods(t *testing.T) {
	replies := session(t, nil,
		"not json",
		notification("$/cancelRequest", map[string]any{"id": 1}),
		request(11, "workspace/symbol", map[string]any{}),
		request(12, MethodHover, "not an object"),
	)

	if len(replies) != 2 {
		t.Fatalf("Expected two error replies, got %v", replies)
	}

	if lookup(t, replies[0], "error", "code") != float64(ErrorMethodNotFound) {
		t.Errorf("Expected method not found, got %v", replies[0])
	}

	if lookup(t, replies[1], "error", "code") != float64(ErrorInvalidParams) {
		t.Errorf("Expected invalid params, got %v", replies[1])
	}
}

func TestWorkspaceDiagnostics(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"good.sscr":       "{$= ok $}",
		"sub/bad.sscr":    "{$END$}",
		"sub/ignored.txt": "{$END$}",
		"sub/open.sscr":   "{$FOR$}",
	})

	rootURI, err := filePathToUri(dir)
	testutil.AssertNoError(t, err)

	openURI, err := filePathToUri(filepath.Join(dir, "sub", "open.sscr"))
	testutil.AssertNoError(t, err)

	badURI, err := filePathToUri(filepath.Join(dir, "sub", "bad.sscr"))
	testutil.AssertNoError(t, err)

	replies := session(t, config.Defaults(),
		request(1, MethodInitialize, map[string]any{"rootUri": rootURI}),
		didOpen(openURI, "fixed in the editor"),
		notification(MethodInitialized, map[string]any{}),
	)

	if len(replies) != 3 {
		t.Fatalf("Expected initialize reply, open diagnostics and one workspace diagnostic, got %v", replies)
	}

	workspace := replies[2]
	if lookup(t, workspace, "params", "uri") != badURI {
		t.Errorf("Expected diagnostics for %s, got %v", badURI, workspace)
	}

	if diagnostics := lookup(t, workspace, "params", "diagnostics").([]any); len(diagnostics) != 1 {
		t.Errorf("Expected one diagnostic, got %v", diagnostics)
	}
}
