package ai

import (
	"context"
	"testing"

	"github.com/amishk599/synergy/internal/model"
)

func TestEchoProvider_ReturnsUserMessage(t *testing.T) {
	got, err := NewEchoProvider().Complete(context.Background(), testMessages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "describe Acme" {
		t.Errorf("got %q, want %q", got, "describe Acme")
	}
}

func TestEchoProvider_NoUserMessage(t *testing.T) {
	_, err := NewEchoProvider().Complete(context.Background(), []model.Message{{Role: model.RoleSystem, Content: "x"}})
	if err == nil {
		t.Fatal("expected error without a user message")
	}
}
