package lsp

// LSP protocol constants.
const (
	// JSONRPCVersion is the JSON-RPC protocol version.
	JSONRPCVersion = "2.0"

	// SeverityError indicates an error diagnostic per LSP spec.
	SeverityError = 1

	// TextDocumentSyncFull indicates full document sync mode.
	TextDocumentSyncFull = 1

	ErrorMethodNotFound = -32601
	ErrorInvalidParams  = -32602
	// ErrorInvalidRequest is the JSON-RPC error code for invalid requests.
	ErrorInvalidRequest = -32600

	MarkupKindMarkdown = "markdown"

	DocumentHighlightText = 1
)

// LSP method names.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodHover              = "textDocument/hover"
	MethodFoldingRange       = "textDocument/foldingRange"
	MethodDocumentHighlight  = "textDocument/documentHighlight"
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodSemanticTokensFull = "textDocument/semanticTokens/full"
)

// Semantic token types (indices into the legend).
const (
	SemanticTokenKeyword = iota
	SemanticTokenVariable
	SemanticTokenFunction
	SemanticTokenString
	SemanticTokenNumber
	SemanticTokenOperator
)

// SemanticTokenTypes is the legend for token types.
var SemanticTokenTypes = []string{
	"keyword",
	"variable",
	"function",
	"string",
	"number",
	"operator",
}

// LSP header constants.
const (
	ContentLengthHeader = "Content-Length"
	HeaderDelimiter     = "\r\n\r\n"
	LineDelimiter       = "\r\n"
)
