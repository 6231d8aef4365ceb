package llmobs

import (
	"context"
	"time"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/trace"
)

// observableCompleter wraps a Completer with observability (logging & tracing)
type observableCompleter struct {
	completer interfaces.Completer
	provider  string
	model     string
}

var _ interfaces.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware
func Wrap(completer interfaces.Completer, provider, model string) interfaces.Completer {
	return &observableCompleter{completer: completer, provider: provider, model: model}
}

func (oc *observableCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting completion",
		"provider", oc.provider,
		"model", oc.model,
		"prompt_chars", len(user),
	)

	start := time.Now()
	reply, err := oc.completer.Complete(ctx, system, user)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err,
			"provider", oc.provider,
			"model", oc.model,
		)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Completion received",
		"provider", oc.provider,
		"reply", reply,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}
