package ai

import (
	"context"
	"fmt"

	"github.com/amishk599/synergy/internal/model"
)

var _ model.Completer = (*EchoProvider)(nil)

// EchoProvider answers with the last user message. It is used for dry runs,
// where no request may leave the machine.
type EchoProvider struct{}

// NewEchoProvider returns an EchoProvider.
func NewEchoProvider() *EchoProvider {
	return &EchoProvider{}
}

// Complete returns the content of the last user message.
func (p *EchoProvider) Complete(_ context.Context, messages []model.Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("echo: no user message")
}
