// Package testutil provides shared test helpers.
package testutil

import (
	"errors"
	"strings"
	"testing"
)

// ContainsSubstring checks if haystack contains needle (case-insensitive).
func ContainsSubstring(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

// RequireErrorIs fails the test immediately unless target is in err's chain.
func RequireErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error %v, got none", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("Expected error %v, got %v", target, err)
	}
}

// AssertErrorContains fails if err is nil or its message lacks expected.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing %q, got none", expected)
		return
	}
	if !ContainsSubstring(err.Error(), expected) {
		t.Errorf("Expected error containing %q, got: %v", expected, err)
	}
}
