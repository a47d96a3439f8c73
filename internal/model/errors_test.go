package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestCompletionError_UnwrapsToHTTPError(t *testing.T) {
	inner := &HTTPError{StatusCode: 429, Err: errors.New("slow down")}
	err := fmt.Errorf("pass failed: %w", &CompletionError{Company: "Acme", Err: inner})

	var cerr *CompletionError
	if !errors.As(err, &cerr) || cerr.Company != "Acme" {
		t.Fatalf("expected CompletionError for Acme, got %v", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 429 {
		t.Fatalf("expected wrapped HTTPError 429, got %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&HTTPError{StatusCode: 500}, "HTTP 500"},
		{&HTTPError{StatusCode: 401, Err: errors.New("bad key")}, "HTTP 401: bad key"},
		{&TooManyRowsError{Count: 21, Limit: 20}, "batch has 21 rows, limit is 20"},
		{&DescriptionTooLongError{Company: "Acme", Words: 300, Limit: 250}, "description for Acme has 300 words, limit is 250"},
		{&CompletionError{Company: "Acme", Err: errors.New("timeout")}, "completion for Acme: timeout"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
