// Package diagnostics records what a generation pass dropped and why, so a
// degraded matrix always has an out-of-band explanation.
package diagnostics

import (
	"context"
	"log"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/storage"
)

// Severity describes the diagnostic severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records diagnostic events. A nil emitter or nil store is a no-op,
// so calculation paths never need to branch on wiring.
type Emitter struct {
	store storage.DiagnosticsStore
	clock func() time.Time
}

// NewEmitter creates a diagnostics emitter backed by store.
func NewEmitter(store storage.DiagnosticsStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records one diagnostic. Store failures are logged, never propagated:
// diagnostics must not take down the pass they are describing.
func (e *Emitter) Emit(ctx context.Context, severity Severity, component, reason, subject string) {
	if e == nil || e.store == nil {
		return
	}
	clock := e.clock
	if clock == nil {
		clock = time.Now
	}
	d := storage.Diagnostic{
		Component: component,
		Severity:  string(severity),
		Reason:    reason,
		Subject:   subject,
		Timestamp: clock().UTC(),
	}
	if err := e.store.AppendDiagnostic(ctx, d); err != nil {
		log.Printf("diagnostics: append %s/%s: %v", component, reason, err)
	}
}
