package heal

import (
	"time"

	"go.uber.org/zap"

	"github.com/solenne/mend/logger"
)

// Signal describes one completed healing call for observability consumers.
type Signal struct {
	CallID     string           `json:"call_id"`
	EntryType  string           `json:"entry_type"`
	EntryID    string           `json:"entry_id"`
	Status     ValidationStatus `json:"status"`
	BridgeUsed bool             `json:"bridge_used"`
	Attempts   int              `json:"attempts"`
	Elapsed    time.Duration    `json:"elapsed"`
	// Error carries the failure message when Status is StatusFailed.
	Error string `json:"error,omitempty"`
}

// Emitter receives a signal after every healing call. Emitters must be fast
// and must not block; the orchestrator calls them synchronously. A panicking
// emitter is recovered and logged, never surfaced to the healing caller.
type Emitter interface {
	Emit(sig Signal)
}

// LogEmitter writes signals to the structured log. The default emitter.
type LogEmitter struct {
	log *zap.SugaredLogger
}

// NewLogEmitter creates a LogEmitter. A nil log falls back to the package
// global logger.
func NewLogEmitter(log *zap.SugaredLogger) *LogEmitter {
	if log == nil {
		log = logger.Logger
	}
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(sig Signal) {
	if e.log == nil {
		return
	}
	fields := []any{
		"call_id", sig.CallID,
		"entry_type", sig.EntryType,
		"entry_id", sig.EntryID,
		"status", sig.Status.String(),
		"bridge_used", sig.BridgeUsed,
		"attempts", sig.Attempts,
		"elapsed", sig.Elapsed,
	}
	if sig.Error != "" {
		e.log.Warnw("healing failed", append(fields, "error", sig.Error)...)
		return
	}
	e.log.Infow("healing completed", fields...)
}
