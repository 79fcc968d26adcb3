// Package chat holds the seam between the authorization core and the
// upstream language model. The model itself is an external collaborator;
// only this narrow interface crosses the boundary.
package chat

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyQuestion indicates the caller submitted a blank question.
var ErrEmptyQuestion = errors.New("chat: question is empty")

// Completer answers a user question under a fixed system prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, question string) (string, error)
}

// StaticCompleter is the in-process fallback used when no upstream model is
// configured. It acknowledges the question without calling anything.
type StaticCompleter struct{}

func (StaticCompleter) Complete(ctx context.Context, systemPrompt, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	return "no upstream model configured; question received: " + question, nil
}
