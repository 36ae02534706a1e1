package lsp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/pacer/smartscript/internal/config"
	"github.com/pacer/smartscript/internal/script"
	"github.com/pacer/smartscript/internal/script/parser"
)

// document is the server's view of one file: its latest text and the outcome
// of parsing it. Exactly one of root and err is set.
type document struct {
	text  string
	lines lineIndex
	root  *parser.DocumentNode
	err   error
}

func newDocument(text string) *document {
	root, err := script.ParseSingleFile([]byte(text))
	return &document{text: text, lines: newLineIndex(text), root: root, err: err}
}

// requestCounter tracks the number of each request type.
type requestCounter struct {
	Initialize   int
	Initialized  int
	Shutdown     int
	TextDocument struct {
		DidClose  int
		DidOpen   int
		DidChange int
	}
	FoldingRange      int
	Hover             int
	DocumentHighlight int
	SemanticTokens    int
	Other             int
}

// Server answers LSP requests for SmartScript documents. It handles one
// message at a time and is not safe for concurrent use.
type Server struct {
	name    string
	version string
	out     io.Writer
	cfg     *config.Config

	rootPath     string
	documents    map[string]*document
	counter      requestCounter
	shuttingDown bool
}

// NewServer creates a server writing responses and notifications to out.
// A nil cfg means config.Defaults.
func NewServer(name, version string, out io.Writer, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Defaults()
	}

	return &Server{
		name:      name,
		version:   version,
		out:       out,
		cfg:       cfg,
		documents: make(map[string]*document),
	}
}

// Serve reads framed messages from in until the client sends exit or closes
// the stream.
func (s *Server) Serve(in io.Reader) error {
	slog.Info("starting lsp server",
		slog.String("server_name", s.name),
		slog.String("server_version", s.version),
	)
	defer func() {
		slog.Info("shutting down lsp server", s.logGroup())
	}()

	scanner := ReceiveInput(in)

	for scanner.Scan() {
		exit, err := s.Handle(scanner.Bytes())
		if err != nil {
			return err
		}

		if exit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading client messages: %w", err)
	}

	return nil
}

// Handle processes one decoded message body. It reports whether the client
// asked the server to exit. Only failures to write to the client are
// returned; malformed messages are logged and answered with an error when
// they carry an id.
func (s *Server) Handle(data []byte) (exit bool, err error) {
	var request RequestMessage[json.RawMessage]
	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("discarding malformed message",
			slog.String("error", err.Error()),
			slog.String("received_req", string(data)),
		)
		return false, nil
	}

	if s.shuttingDown {
		if request.Method == MethodExit {
			return true, nil
		}

		if request.Id == nil {
			return false, nil
		}

		return false, s.replyError(request.Id, ErrorInvalidRequest, "illegal request while server shutting down")
	}

	slog.Debug("request "+request.Method, s.logGroup())

	switch request.Method {
	case MethodInitialize:
		s.counter.Initialize++
		return false, s.initialize(request)

	case MethodInitialized:
		s.counter.Initialized++
		return false, s.initialized()

	case MethodShutdown:
		s.counter.Shutdown++
		s.shuttingDown = true
		return false, s.reply(request.Id, nil)

	case MethodExit:
		return true, nil

	case MethodDidOpen:
		s.counter.TextDocument.DidOpen++
		return false, s.didOpen(request)

	case MethodDidChange:
		s.counter.TextDocument.DidChange++
		return false, s.didChange(request)

	case MethodDidClose:
		s.counter.TextDocument.DidClose++
		return false, s.didClose(request)

	case MethodHover:
		s.counter.Hover++
		return false, s.hover(request)

	case MethodFoldingRange:
		s.counter.FoldingRange++
		return false, s.foldingRange(request)

	case MethodDocumentHighlight:
		s.counter.DocumentHighlight++
		return false, s.documentHighlight(request)

	case MethodSemanticTokensFull:
		s.counter.SemanticTokens++
		return false, s.semanticTokens(request)
	}

	s.counter.Other++

	if request.Id == nil {
		return false, nil
	}

	return false, s.replyError(request.Id, ErrorMethodNotFound, "method not supported: "+request.Method)
}

func (s *Server) send(message any) error {
	content, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}

	return SendToLspClient(s.out, content)
}

func (s *Server) reply(id *ID, result any) error {
	return s.send(ResponseMessage[any]{
		JsonRpc: JSONRPCVersion,
		Id:      id,
		Result:  result,
	})
}

func (s *Server) replyError(id *ID, code int, message string) error {
	slog.Warn("request failed", slog.Int("code", code), slog.String("message", message))

	return s.send(ResponseMessage[any]{
		JsonRpc: JSONRPCVersion,
		Id:      id,
		Error:   &ResponseError{Code: code, Message: message},
	})
}

// decodeParams unmarshals the params of request into params, answering the
// request with ErrorInvalidParams on failure. ok is false when the request
// must not be processed further.
func decodeParams[T any](s *Server, request RequestMessage[json.RawMessage], params *T) (ok bool, err error) {
	if unmarshalErr := json.Unmarshal(request.Params, params); unmarshalErr != nil {
		msg := "invalid params for '" + request.Method + "': " + unmarshalErr.Error()
		if request.Id == nil {
			slog.Warn(msg)
			return false, nil
		}

		return false, s.replyError(request.Id, ErrorInvalidParams, msg)
	}

	return true, nil
}

func (s *Server) logGroup() slog.Attr {
	return slog.Group("server",
		slog.String("root_path", s.rootPath),
		slog.Any("open_files", slices.Sorted(maps.Keys(s.documents))),
		slog.Any("request_counter", s.counter),
	)
}
