package interfaces

import "context"

// Completer sends one system instruction and one user message to a language
// model and returns the text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
