package sessioncore

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type recordingSink struct {
	mu     chan struct{}
	events []AuditEvent
}

func newRecordingSink() *recordingSink {
	s := &recordingSink{mu: make(chan struct{}, 1)}
	s.mu <- struct{}{}
	return s
}

func (s *recordingSink) Emit(_ context.Context, event AuditEvent) {
	<-s.mu
	s.events = append(s.events, event)
	s.mu <- struct{}{}
}

func (s *recordingSink) snapshot() []AuditEvent {
	<-s.mu
	out := append([]AuditEvent(nil), s.events...)
	s.mu <- struct{}{}
	return out
}

func TestDispatcherDeliversEventsToSink(t *testing.T) {
	sink := newRecordingSink()
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	d.Emit(context.Background(), AuditEvent{EventType: auditEventSessionSuccess, Username: "navjot", Success: true})
	d.Emit(context.Background(), AuditEvent{EventType: auditEventLogout, Success: true})
	d.Close()

	events := sink.snapshot()
	if len(events) != 2 {
		t.Fatalf("delivered = %d events, want 2", len(events))
	}
	if events[0].EventType != auditEventSessionSuccess || events[0].Username != "navjot" {
		t.Fatalf("first event = %+v", events[0])
	}
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	if d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{}); d != nil {
		t.Fatal("disabled config must yield a nil dispatcher")
	}

	// Nil dispatcher tolerates all calls.
	var d *auditDispatcher
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	slow := sinkFunc(func(context.Context, AuditEvent) { <-block })

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, slow)

	// First event occupies the worker, second fills the buffer, the rest drop.
	for i := 0; i < 8; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLogout})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}

	close(block)
	d.Close()
}

func TestDispatcherEmitAfterCloseIsIgnored(t *testing.T) {
	sink := newRecordingSink()
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, sink)
	d.Close()

	d.Emit(context.Background(), AuditEvent{EventType: auditEventLogout})

	if len(sink.snapshot()) != 0 {
		t.Fatal("event delivered after Close")
	}
}

type sinkFunc func(context.Context, AuditEvent)

func (f sinkFunc) Emit(ctx context.Context, event AuditEvent) { f(ctx, event) }

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(4)
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventOtpSent})

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventOtpSent {
			t.Fatalf("event = %+v", event)
		}
	default:
		t.Fatal("expected buffered event")
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		EventType: auditEventSessionFailure,
		Username:  "navjot",
		Metadata:  map[string]string{"reason": "invalid_credentials"},
	})
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLogout, Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	var decoded AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.EventType != auditEventSessionFailure || decoded.Metadata["reason"] != "invalid_credentials" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestEngineEmitsAuditEvents(t *testing.T) {
	sink := newRecordingSink()

	tokens := &fakeTokenService{tokenErr: ErrInvalidPassword}
	engine, _ := newTestEngine(t, defaultConfig(), tokens, &fakeUserDirectory{}, &fakeOtpChannel{}, &fakeTracker{})
	engine.audit = newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: false}, sink)

	ctx := WithClientIP(context.Background(), "10.0.0.9")
	if _, err := engine.NewSession(ctx, SessionRequest{Username: "navjot", Password: "wrong"}); err == nil {
		t.Fatal("expected unauthorized")
	}
	engine.Close()

	events := sink.snapshot()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	event := events[0]
	if event.EventType != auditEventSessionFailure {
		t.Fatalf("event type = %q", event.EventType)
	}
	if event.Username != "navjot" || event.IP != "10.0.0.9" || event.Success {
		t.Fatalf("event = %+v", event)
	}
	if event.Metadata["reason"] != "invalid_credentials" {
		t.Fatalf("metadata = %v", event.Metadata)
	}
}
