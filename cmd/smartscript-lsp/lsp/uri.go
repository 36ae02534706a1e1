package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
)

var ErrInvalidURI = errors.New("invalid file URI")

// uriToFilePath converts a file URI to an OS path.
func uriToFilePath(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: URI cannot be empty", ErrInvalidURI)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	switch {
	case u.Scheme != "file":
		return "", fmt.Errorf("%w: can only handle 'file' scheme: %s", ErrInvalidURI, uri)
	case u.RawQuery != "":
		return "", fmt.Errorf("%w: '?' character is not permitted: %s", ErrInvalidURI, uri)
	case u.Fragment != "":
		return "", fmt.Errorf("%w: '#' character is not permitted: %s", ErrInvalidURI, uri)
	case u.Path == "":
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidURI)
	}

	path := u.Path
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

// filePathToUri converts an OS path to a file URI.
func filePathToUri(path string) (string, error) {
	if path == "" {
		return "", errors.New("path to a file cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("malformed file path: %w", err)
	}

	slashPath := filepath.ToSlash(absPath)
	if runtime.GOOS == "windows" && slashPath[0] != '/' {
		slashPath = "/" + slashPath
	}

	u := url.URL{
		Scheme: "file",
		Path:   slashPath,
	}

	return u.String(), nil
}
