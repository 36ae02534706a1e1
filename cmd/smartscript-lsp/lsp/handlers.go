package lsp

import (
	"encoding/json"
	"log/slog"

	"github.com/pacer/smartscript/internal/script"
)

const diagnosticSource = "smartscript"

func (s *Server) initialize(request RequestMessage[json.RawMessage]) error {
	var params InitializeParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	if params.RootUri != "" {
		rootPath, err := uriToFilePath(params.RootUri)
		if err != nil {
			slog.Warn("ignoring workspace root", slog.String("root_uri", params.RootUri), slog.String("error", err.Error()))
		} else {
			s.rootPath = rootPath
		}
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:          TextDocumentSyncFull,
			HoverProvider:             true,
			FoldingRangeProvider:      true,
			DocumentHighlightProvider: true,
		},
	}

	result.Capabilities.SemanticTokensProvider.Legend.TokenTypes = SemanticTokenTypes
	result.Capabilities.SemanticTokensProvider.Legend.TokenModifiers = []string{}
	result.Capabilities.SemanticTokensProvider.Full = true
	result.ServerInfo.Name = s.name
	result.ServerInfo.Version = s.version

	slog.Info("initialize",
		slog.String("client", params.ClientInfo.Name),
		slog.String("root_path", s.rootPath),
	)

	return s.reply(request.Id, result)
}

// initialized parses every document of the workspace and publishes
// diagnostics for the ones that fail. Documents already opened by the
// client keep the diagnostics of their editor text.
func (s *Server) initialized() error {
	if s.rootPath == "" {
		return nil
	}

	files, err := script.OpenProjectFiles(s.rootPath, s.cfg.Workspace.Extensions, s.cfg.Workspace.MaxDepth)
	if err != nil {
		slog.Warn("unable to scan workspace", slog.String("root_path", s.rootPath), slog.String("error", err.Error()))
		return nil
	}

	parsed, errs := script.ParseFilesInWorkspace(files, s.cfg.Workspace.Workers)

	slog.Info("workspace parsed",
		slog.Int("files", len(files)),
		slog.Int("parsed", len(parsed)),
		slog.Int("failed", len(errs)),
	)

	for _, fileErr := range errs {
		uri, err := filePathToUri(fileErr.FileName)
		if err != nil {
			slog.Warn("skipped file", slog.String("file", fileErr.FileName), slog.String("error", err.Error()))
			continue
		}

		if _, open := s.documents[uri]; open {
			continue
		}

		if err := s.publishDiagnostics(uri, newLineIndex(string(files[fileErr.FileName])), fileErr.Err); err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) didOpen(request RequestMessage[json.RawMessage]) error {
	var params DidOpenTextDocumentParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	uri := params.TextDocument.Uri
	doc := newDocument(params.TextDocument.Text)
	s.documents[uri] = doc

	return s.publishDiagnostics(uri, doc.lines, doc.err)
}

func (s *Server) didChange(request RequestMessage[json.RawMessage]) error {
	var params DidChangeTextDocumentParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	changes := params.ContentChanges
	if len(changes) == 0 {
		slog.Warn("'contentChanges' field is empty", slog.String("uri", params.TextDocument.Uri))
		return nil
	}

	uri := params.TextDocument.Uri
	doc := newDocument(changes[len(changes)-1].Text)
	s.documents[uri] = doc

	return s.publishDiagnostics(uri, doc.lines, doc.err)
}

func (s *Server) didClose(request RequestMessage[json.RawMessage]) error {
	var params DidCloseTextDocumentParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	uri := params.TextDocument.Uri
	delete(s.documents, uri)

	return s.publishDiagnostics(uri, nil, nil)
}

// publishDiagnostics sends the diagnostics of one document: a single error
// when parseErr is set, otherwise an empty list clearing earlier ones.
func (s *Server) publishDiagnostics(uri string, lines lineIndex, parseErr error) error {
	diagnostics := []Diagnostic{}

	if parseErr != nil {
		reach, _ := script.ErrorRange(parseErr)

		diagnostics = append(diagnostics, Diagnostic{
			Range:    lines.toLspRange(reach),
			Message:  parseErr.Error(),
			Severity: SeverityError,
			Source:   diagnosticSource,
		})
	}

	slog.Debug("publish diagnostics", slog.String("uri", uri), slog.Int("count", len(diagnostics)))

	return s.send(NotificationMessage[PublishDiagnosticsParams]{
		JsonRpc: JSONRPCVersion,
		Method:  MethodPublishDiagnostics,
		Params: PublishDiagnosticsParams{
			Uri:         uri,
			Diagnostics: diagnostics,
		},
	})
}

func (s *Server) hover(request RequestMessage[json.RawMessage]) error {
	var params TextDocumentPositionParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	doc := s.documents[params.TextDocument.Uri]
	if doc == nil || doc.root == nil {
		return s.reply(request.Id, nil)
	}

	value, reach := script.Hover(doc.root, doc.lines.fromLsp(params.Position))
	if value == "" {
		return s.reply(request.Id, nil)
	}

	return s.reply(request.Id, HoverResult{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: value,
		},
		Range: doc.lines.toLspRange(reach),
	})
}

// foldingRange returns one region per for-loop. A multi-line loop stops
// folding on the line before its END tag so that tag stays visible.
func (s *Server) foldingRange(request RequestMessage[json.RawMessage]) error {
	var params FoldingRangeParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	folds := []FoldingRangeResult{}

	doc := s.documents[params.TextDocument.Uri]
	if doc == nil || doc.root == nil {
		return s.reply(request.Id, folds)
	}

	for _, loop := range script.FoldingRanges(doc.root) {
		reach := doc.lines.toLspRange(loop.Range())

		if reach.Start.Line != reach.End.Line {
			reach.End.Line--
		}

		folds = append(folds, FoldingRangeResult{
			StartLine:      reach.Start.Line,
			StartCharacter: reach.Start.Character,
			EndLine:        reach.End.Line,
			EndCharacter:   reach.End.Character,
			Kind:           FoldingRangeRegion,
		})
	}

	return s.reply(request.Id, folds)
}

// documentHighlight marks every variable, or every function, sharing the
// name of the one under the cursor.
func (s *Server) documentHighlight(request RequestMessage[json.RawMessage]) error {
	var params TextDocumentPositionParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	doc := s.documents[params.TextDocument.Uri]
	if doc == nil {
		return s.reply(request.Id, nil)
	}

	tokens := classifyTokens(doc.text)

	target, ok := tokenAt(tokens, doc.lines.fromLsp(params.Position))
	if !ok || (target.kind != SemanticTokenVariable && target.kind != SemanticTokenFunction) {
		return s.reply(request.Id, nil)
	}

	highlights := []DocumentHighlight{}
	for _, token := range tokens {
		if token.kind == target.kind && token.Value == target.Value {
			highlights = append(highlights, DocumentHighlight{
				Range: doc.lines.toLspRange(token.Range),
				Kind:  DocumentHighlightText,
			})
		}
	}

	return s.reply(request.Id, highlights)
}

func (s *Server) semanticTokens(request RequestMessage[json.RawMessage]) error {
	var params SemanticTokensParams
	if ok, err := decodeParams(s, request, &params); !ok {
		return err
	}

	result := SemanticTokens{Data: []uint{}}

	if doc := s.documents[params.TextDocument.Uri]; doc != nil {
		result.Data = encodeSemanticTokens(doc.lines, classifyTokens(doc.text))
	}

	return s.reply(request.Id, result)
}
