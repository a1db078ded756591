package recommendations

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"potplanner-backend/internal/shared/metrics"
	"potplanner-backend/internal/shared/telemetry"
)

const defaultSnapshotEvery = 10

// MonitorObserver is the production observer: it logs events when debug is
// on, feeds the process-wide metrics counters, logs a counter snapshot every
// SnapshotEvery events, and asynchronously persists a narrowed event subset.
// Persistence failures are swallowed and logged; Emit never fails observably.
type MonitorObserver struct {
	Debug         bool
	Monitoring    bool
	SnapshotEvery int

	// Persist stores one event record, typically Repo.InsertEventRecord.
	// Nil disables event persistence.
	Persist func(ctx context.Context, rec EventRecord) error

	// PersistTimeout bounds each async persistence attempt.
	PersistTimeout time.Duration

	total atomic.Uint64
	wg    sync.WaitGroup
}

func (o *MonitorObserver) Emit(event Event) {
	if o.Debug {
		telemetry.Info("recommendation.event", eventFields(event))
	}

	o.updateMetrics(event)

	total := o.total.Add(1)
	every := o.SnapshotEvery
	if every <= 0 {
		every = defaultSnapshotEvery
	}
	if o.Monitoring && total%uint64(every) == 0 {
		snap := metrics.Current()
		telemetry.Info("recommendation.monitor", map[string]any{
			"total":             total,
			"resolved":          snap.Resolved,
			"failed":            snap.Failed,
			"matrix_resolved":   snap.MatrixResolved,
			"ai_resolved":       snap.AIResolved,
			"ai_invoked":        snap.AIInvoked,
			"fallback_resolved": snap.FallbackResolved,
			"cache_saved":       snap.CacheSaved,
			"cache_failed":      snap.CacheFailed,
		})
	}

	o.persistAsync(event)
}

func (o *MonitorObserver) updateMetrics(event Event) {
	switch event.Type {
	case EventStarted:
		metrics.IncRecommendationStarted()
	case EventResolved:
		metrics.IncRecommendationResolved(string(event.Provider))
		metrics.ObserveResolutionDurationMs(float64(event.Duration.Microseconds()) / 1000.0)
	case EventFailed:
		metrics.IncRecommendationFailed()
		metrics.ObserveResolutionDurationMs(float64(event.Duration.Microseconds()) / 1000.0)
	case EventAIInvoked:
		metrics.IncAIInvoked()
	case EventCacheSaved:
		metrics.IncAICacheSaved()
	case EventCacheFailed:
		metrics.IncAICacheFailed()
	}
}

func (o *MonitorObserver) persistAsync(event Event) {
	if o.Persist == nil {
		return
	}
	rec, ok := toPersistableEvent(event)
	if !ok {
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		timeout := o.PersistTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := o.Persist(ctx, rec); err != nil {
			telemetry.Debug("recommendation event persist failed", map[string]any{
				"type":       string(event.Type),
				"pot_base":   event.PotBase,
				"protein_id": event.ProteinID,
				"error":      err.Error(),
			})
		}
	}()
}

// Flush waits for in-flight persistence goroutines. Intended for tests and
// shutdown paths.
func (o *MonitorObserver) Flush() {
	o.wg.Wait()
}

// toPersistableEvent narrows the event stream to the persisted subset:
// matrix misses, AI invocations, and resolutions.
func toPersistableEvent(event Event) (EventRecord, bool) {
	switch {
	case event.Type == EventProviderMiss && event.Provider == SourceMatrix:
		return EventRecord{
			EventType: EventProviderMiss,
			PotBase:   event.PotBase,
			ProteinID: event.ProteinID,
			Source:    SourceMatrix,
		}, true
	case event.Type == EventAIInvoked:
		return EventRecord{
			EventType: EventAIInvoked,
			PotBase:   event.PotBase,
			ProteinID: event.ProteinID,
			Source:    SourceAI,
		}, true
	case event.Type == EventResolved:
		return EventRecord{
			EventType: EventResolved,
			PotBase:   event.PotBase,
			ProteinID: event.ProteinID,
			Source:    event.Provider,
			Reason:    event.Reason,
		}, true
	default:
		return EventRecord{}, false
	}
}

func eventFields(event Event) map[string]any {
	fields := map[string]any{
		"type":       string(event.Type),
		"pot_base":   event.PotBase,
		"protein_id": event.ProteinID,
	}
	if event.Provider != "" {
		fields["provider"] = string(event.Provider)
	}
	if event.Reason != "" {
		fields["reason"] = event.Reason
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	if event.Duration > 0 {
		fields["duration_ms"] = float64(event.Duration.Microseconds()) / 1000.0
	}
	return fields
}

var _ Observer = (*MonitorObserver)(nil)
