package lsp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	got := string(Encode([]byte(`{"a":1}`)))
	expected := "Content-Length: 7\r\n\r\n{\"a\":1}"

	if got != expected {
		t.Errorf("Encode() = %q, expected %q", got, expected)
	}
}

func TestReceiveInput(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(Encode([]byte(`{"first":true}`)))
	stream.WriteString("Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n")
	stream.Write(Encode([]byte(`{"second":true}`)))
	stream.Write(Encode([]byte(`{}`)))

	scanner := ReceiveInput(&stream)

	var messages []string
	for scanner.Scan() {
		messages = append(messages, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Unexpected scanner error: %v", err)
	}

	expected := []string{`{"first":true}`, `{"second":true}`, `{}`}
	if strings.Join(messages, "|") != strings.Join(expected, "|") {
		t.Errorf("Got messages %q, expected %q", messages, expected)
	}
}

func TestReceiveInput_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"missing content length", "Content-Type: x\r\n\r\n{}", ErrMissingContentLength},
		{"not an integer", "Content-Length: abc\r\n\r\n{}", ErrMalformedHeader},
		{"negative", "Content-Length: -1\r\n\r\n{}", ErrMalformedHeader},
		{"truncated body", "Content-Length: 10\r\n\r\n{}", ErrMalformedHeader},
		{"truncated header", "Content-Length: 2\r\n", ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := ReceiveInput(strings.NewReader(tt.input))
			for scanner.Scan() {
				t.Errorf("Unexpected message %q", scanner.Text())
			}

			if !errors.Is(scanner.Err(), tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, scanner.Err())
			}
		})
	}
}

func TestHeaderContentLength_CaseInsensitive(t *testing.T) {
	length, err := headerContentLength([]byte("content-length:  42 "))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if length != 42 {
		t.Errorf("Expected 42, got %d", length)
	}
}
