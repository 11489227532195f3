package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded for a request carrying an Idempotency-Key.
const (
	IdempotencyProcessed = "processed"
	IdempotencyDuplicate = "duplicate"
	IdempotencyReleased  = "released"
)

// AttrIdempotencyOutcome labels how a keyed request was handled.
var AttrIdempotencyOutcome = attribute.Key("outcome")

// IdempotencyMetrics counts keyed requests by outcome. A nil
// *IdempotencyMetrics records nothing.
type IdempotencyMetrics struct {
	requests *Counter
}

// NewIdempotencyMetrics registers the idempotency counter on meter.
func NewIdempotencyMetrics(meter metric.Meter) (*IdempotencyMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	requests, err := NewCounter(meter,
		"po_idempotency_requests_total",
		"Requests carrying an Idempotency-Key, by outcome",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}
	return &IdempotencyMetrics{requests: requests}, nil
}

// Record counts one keyed request with the given outcome.
func (m *IdempotencyMetrics) Record(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.requests.Inc(ctx, AttrIdempotencyOutcome.String(outcome))
}
