package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// maxMessageSize bounds a single framed message.
const maxMessageSize = 16 * 1024 * 1024

var (
	ErrMissingContentLength = errors.New("missing '" + ContentLengthHeader + "' header")
	ErrMalformedHeader      = errors.New("malformed '" + ContentLengthHeader + "' header")
)

// ReceiveInput creates a scanner that decodes LSP messages from an input stream.
func ReceiveInput(input io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	scanner.Split(decode)
	return scanner
}

// SendToLspClient frames content and writes it to output.
func SendToLspClient(output io.Writer, content []byte) error {
	if _, err := output.Write(Encode(content)); err != nil {
		return fmt.Errorf("writing to client: %w", err)
	}

	return nil
}

// Encode prefixes content with its Content-Length header.
func Encode(content []byte) []byte {
	header := ContentLengthHeader + ": " + strconv.Itoa(len(content)) + HeaderDelimiter

	framed := make([]byte, 0, len(header)+len(content))
	framed = append(framed, header...)

	return append(framed, content...)
}

// decode is a bufio.SplitFunc returning one message body per token.
func decode(data []byte, atEOF bool) (advance int, token []byte, err error) {
	headerEnd := bytes.Index(data, []byte(HeaderDelimiter))
	if headerEnd == -1 {
		if atEOF && len(bytes.TrimSpace(data)) > 0 {
			return 0, nil, fmt.Errorf("%w: truncated header", ErrMalformedHeader)
		}

		return 0, nil, nil
	}

	contentLength, err := headerContentLength(data[:headerEnd])
	if err != nil {
		return 0, nil, err
	}

	bodyStart := headerEnd + len(HeaderDelimiter)
	bodyEnd := bodyStart + contentLength

	if len(data) < bodyEnd {
		if atEOF {
			return 0, nil, fmt.Errorf("%w: body shorter than announced", ErrMalformedHeader)
		}

		return 0, nil, nil
	}

	return bodyEnd, data[bodyStart:bodyEnd], nil
}

// headerContentLength finds the Content-Length value among the header
// lines. Other headers, such as Content-Type, are ignored.
func headerContentLength(header []byte) (int, error) {
	for line := range bytes.SplitSeq(header, []byte(LineDelimiter)) {
		name, value, found := bytes.Cut(line, []byte(":"))
		if !found {
			continue
		}

		if !bytes.EqualFold(bytes.TrimSpace(name), []byte(ContentLengthHeader)) {
			continue
		}

		contentLength, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil {
			return -1, fmt.Errorf("%w: value is not an integer", ErrMalformedHeader)
		}

		if contentLength < 0 {
			return -1, fmt.Errorf("%w: value cannot be negative", ErrMalformedHeader)
		}

		return contentLength, nil
	}

	return -1, ErrMissingContentLength
}
