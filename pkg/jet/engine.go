package jet

import (
	"io"
	"log/slog"
)

// Engine holds a deployment and performs the pure parts of the SDK: address
// derivation and obligation valuation. It does no I/O and is safe for
// concurrent use.
type Engine struct {
	deployment Deployment
	logger     *slog.Logger
}

// NewEngine returns an engine bound to deployment. A nil logger discards output.
func NewEngine(deployment Deployment, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{deployment: deployment, logger: logger.With("component", "jet-engine")}
}

func (e *Engine) Deployment() Deployment { return e.deployment }
