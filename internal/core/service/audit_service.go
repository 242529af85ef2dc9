package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coveradmin/insurance-portal/internal/api/metrics"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
)

type auditService struct {
	sink ports.AuditSink
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that records events to the
// configured sink.
func NewAuditService(sink ports.AuditSink, log zerolog.Logger) ports.AuditService {
	return &auditService{sink: sink, log: log}
}

// Process persists one audit event. The credential itself never appears in
// an event; only the subject email, role, and outcome are recorded.
func (s *auditService) Process(ctx context.Context, event ports.AuditEvent) error {
	if err := s.sink.Record(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		return err
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "ok").Inc()
	s.log.Debug().
		Str("type", string(event.Type)).
		Str("email", event.Email).
		Msg("audit event recorded")
	return nil
}

// LogSink is the fallback ports.AuditSink: it writes events to the
// structured log instead of a database.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, event ports.AuditEvent) error {
	s.log.Info().
		Str("type", string(event.Type)).
		Str("email", event.Email).
		Str("role", event.Role).
		Str("remote_ip", event.RemoteIP).
		Str("reason", event.Reason).
		Time("occurred_at", event.At).
		Msg("auth audit event")
	return nil
}
