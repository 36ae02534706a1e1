// Package script ties the lexer, parser and printer together for the
// command line tools and the language server.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pacer/smartscript/internal/script/lexer"
	"github.com/pacer/smartscript/internal/script/parser"
	"github.com/pacer/smartscript/internal/script/printer"
)

type Error = lexer.Error

// DefaultDocument is parsed when no document is given on the command line.
const DefaultDocument = "This is . \"sample\" \\ text.\r\n" +
	"{$ FOR i_0 -1 \"100\" 1 $}\r\n" +
	" This is {$= i 22.03 \"Joe \\\"Long\\\" Smith\" $}-th time this message is generated.\r\n" +
	"{$END$}\r\n" +
	"{$FOR i 0 10 2 $}\r\n" +
	" sin({$=i$}^2) = {$= i 2.301AG+3 i * @sin \"0.000\" @decfmt $}\r\n" +
	"{$END$}"

// DefaultMaxDepth bounds directory recursion in OpenProjectFiles.
const DefaultMaxDepth = 5

// ParseSingleFile parses one document held in memory.
func ParseSingleFile(source []byte) (*parser.DocumentNode, error) {
	return parser.Parse(string(source))
}

// RoundTripResult holds both serialization generations of a document.
type RoundTripResult struct {
	First  string
	Second string
}

// Stable reports whether re-parsing the serialized text reproduced it.
func (r RoundTripResult) Stable() bool {
	return r.First == r.Second
}

// RoundTrip parses source, serializes the tree, then parses and serializes
// that text a second time.
func RoundTrip(source []byte) (RoundTripResult, error) {
	var result RoundTripResult

	document, err := ParseSingleFile(source)
	if err != nil {
		return result, err
	}

	result.First = printer.Serialize(document)

	document, err = parser.Parse(result.First)
	if err != nil {
		return result, fmt.Errorf("re-parsing serialized document: %w", err)
	}

	result.Second = printer.Serialize(document)

	return result, nil
}

// ReadSource reads a document from disk as UTF-8. A UTF-8 byte order mark is
// dropped and UTF-16 content with a byte order mark is converted.
func ReadSource(path string) ([]byte, error) {
	//nolint:gosec // path comes from the command line or the workspace walk
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return DecodeSource(content)
}

// DecodeSource converts raw document bytes to UTF-8 using the same rules as
// ReadSource.
func DecodeSource(content []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	decoded, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return decoded, nil
}

// OpenProjectFiles recursively reads files from rootDir whose extension is
// one of extensions, descending at most maxDepth directories. Files that
// cannot be read are logged and skipped.
func OpenProjectFiles(rootDir string, extensions []string, maxDepth int) (map[string][]byte, error) {
	return openProjectFilesSafely(rootDir, extensions, 0, maxDepth)
}

func openProjectFilesSafely(
	rootDir string,
	extensions []string,
	currentDepth, maxDepth int,
) (map[string][]byte, error) {
	if currentDepth > maxDepth {
		return nil, nil
	}

	list, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("reading directory content: %w", err)
	}

	fileNamesToContent := make(map[string][]byte)

	for _, entry := range list {
		fileName := filepath.Join(rootDir, entry.Name())

		if entry.IsDir() {
			subFiles, err := openProjectFilesSafely(fileName, extensions, currentDepth+1, maxDepth)
			if err != nil {
				return nil, err
			}

			maps.Copy(fileNamesToContent, subFiles)
			continue
		}

		if !HasFileExtension(fileName, extensions) {
			continue
		}

		content, err := ReadSource(fileName)
		if err != nil {
			slog.Warn("unable to open file", "file", fileName, "error", err)
			continue
		}

		fileNamesToContent[fileName] = content
	}

	return fileNamesToContent, nil
}

// FileError is a parse failure attributed to one workspace file.
type FileError struct {
	FileName string
	Err      error
}

func (e FileError) Error() string {
	return e.FileName + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// parseResult holds the result of parsing a single file.
type parseResult struct {
	fileName  string
	parseTree *parser.DocumentNode
	err       error
}

// ParseFilesInWorkspace parses every file concurrently, with at most workers
// parses in flight (GOMAXPROCS when workers <= 0). Successfully parsed files
// are returned by name; failures are returned as FileError values sorted by
// file name. Never returns a nil map.
func ParseFilesInWorkspace(
	workspaceFiles map[string][]byte,
	workers int,
) (map[string]*parser.DocumentNode, []FileError) {
	if len(workspaceFiles) == 0 {
		return make(map[string]*parser.DocumentNode), nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	numWorkers := min(workers, len(workspaceFiles))

	results := make(chan parseResult, len(workspaceFiles))
	sem := make(chan struct{}, numWorkers)

	var wg sync.WaitGroup
	for fileName, content := range workspaceFiles {
		wg.Add(1)
		go func(fileName string, content []byte) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			parseTree, err := ParseSingleFile(content)
			results <- parseResult{fileName, parseTree, err}
		}(fileName, content)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	parsedFilesInWorkspace := make(map[string]*parser.DocumentNode, len(workspaceFiles))
	var errs []FileError

	for result := range results {
		if result.err != nil {
			errs = append(errs, FileError{FileName: result.fileName, Err: result.err})
			continue
		}

		parsedFilesInWorkspace[result.fileName] = result.parseTree
	}

	slices.SortFunc(errs, func(a, b FileError) int {
		return strings.Compare(a.FileName, b.FileName)
	})

	return parsedFilesInWorkspace, errs
}

// FoldingRanges returns every for-loop of the document, in document order.
func FoldingRanges(root *parser.DocumentNode) []*parser.ForLoopNode {
	loops := make([]*parser.ForLoopNode, 0, 10)

	parser.Inspect(root, func(node parser.Node) bool {
		if loop, ok := node.(*parser.ForLoopNode); ok {
			loops = append(loops, loop)
		}

		return true
	})

	return loops
}

// NodeAt returns the innermost node whose range contains position, or nil
// when position only falls inside the document root.
func NodeAt(root *parser.DocumentNode, position lexer.Position) parser.Node {
	var found parser.Node

	parser.Inspect(root, func(node parser.Node) bool {
		if node.Kind() == parser.KindDocument {
			return true
		}

		if !node.Range().Contains(position) {
			return false
		}

		found = node

		return true
	})

	return found
}

// Hover describes the node under position as markdown, along with the range
// it applies to. An empty string means there is nothing to describe.
func Hover(root *parser.DocumentNode, position lexer.Position) (string, lexer.Range) {
	node := NodeAt(root, position)
	if node == nil {
		return "", lexer.EmptyRange()
	}

	switch n := node.(type) {
	case *parser.ForLoopNode:
		return fmt.Sprintf(
			"**FOR** loop over `%s` from %d to %d, step %d (%d child nodes)",
			n.Variable.Name,
			n.Start.Value,
			n.End.Value,
			n.Step.Value,
			n.NumberOfChildren(),
		), n.Range()

	case *parser.EchoNode:
		elements := n.Elements()
		if len(elements) == 0 {
			return "**echo** tag without elements", n.Range()
		}

		lines := make([]string, 0, len(elements))
		for _, element := range elements {
			lines = append(lines, fmt.Sprintf("- %s `%s`", element.Kind(), element.AsText()))
		}

		return "**echo** tag\n\n" + strings.Join(lines, "\n"), n.Range()

	case *parser.TextNode:
		return fmt.Sprintf("text, %d characters", len([]rune(n.Text))), n.Range()
	}

	return "", lexer.EmptyRange()
}

// ErrorRange returns the range carried by a lexer or parser error.
func ErrorRange(err error) (lexer.Range, bool) {
	var located Error
	if errors.As(err, &located) {
		return located.GetRange(), true
	}

	return lexer.EmptyRange(), false
}

// HasFileExtension reports whether fileName's extension is found within extensions.
func HasFileExtension(fileName string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(fileName, "."+strings.TrimPrefix(ext, ".")) {
			return true
		}
	}

	return false
}
