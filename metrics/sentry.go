package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics adds spans to the request transaction when Sentry is set up.
type SentryMetrics struct {
	enabled bool
}

func NewSentryMetrics(enabled bool) *SentryMetrics {
	return &SentryMetrics{enabled: enabled}
}

// RecordRealization records one realize request.
func (m *SentryMetrics) RecordRealization(ctx context.Context, measures, notes int, duration time.Duration, err error) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "ornament.realize")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", err == nil))
	span.SetData("measures", measures)
	span.SetData("notes", notes)
	span.SetData("duration_ms", duration.Milliseconds())

	if err != nil {
		span.Status = sentry.SpanStatusInvalidArgument
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Description = fmt.Sprintf("Realize: %d measures", measures)
}
