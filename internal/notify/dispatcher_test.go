package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/driftguard/internal/log"
)

// stubNotifier records calls and returns a fixed error
type stubNotifier struct {
	name  string
	err   error
	delay time.Duration
	calls int
	got   *Message
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Notify(ctx context.Context, msg *Message) error {
	s.calls++
	s.got = msg
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func TestDispatcherDispatch(t *testing.T) {
	ok := &stubNotifier{name: "ok"}
	failing := &stubNotifier{name: "failing", err: errors.New("connection refused")}
	last := &stubNotifier{name: "last"}

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: log.LevelInfo, Format: log.FormatText, Output: log.NewOutput(&buf)})

	d := NewDispatcher([]Notifier{ok, failing, last}, time.Second, logger)
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}

	msg := NewMessage(testReport(), revertedResult())
	results := d.Dispatch(context.Background(), msg)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, n := range []*stubNotifier{ok, failing, last} {
		if n.calls != 1 {
			t.Errorf("%s called %d times, want 1", n.name, n.calls)
		}
		if n.got != msg {
			t.Errorf("%s received a different message", n.name)
		}
	}

	if !results[0].Success || results[0].Channel != "ok" {
		t.Errorf("unexpected result[0]: %+v", results[0])
	}
	if results[1].Success || results[1].Error != "connection refused" {
		t.Errorf("unexpected result[1]: %+v", results[1])
	}
	if !results[2].Success {
		t.Errorf("a failing channel must not stop later ones: %+v", results[2])
	}

	failed := Failed(results)
	if len(failed) != 1 || failed[0].Channel != "failing" {
		t.Errorf("Failed() = %+v", failed)
	}

	out := buf.String()
	if !strings.Contains(out, "notification failed") || !strings.Contains(out, "NOTIFY-001") {
		t.Errorf("failure not logged with code:\n%s", out)
	}
	if !strings.Contains(out, "notification sent") {
		t.Errorf("success not logged:\n%s", out)
	}
}

func TestDispatcherTimeout(t *testing.T) {
	slow := &stubNotifier{name: "slow", delay: 5 * time.Second}
	fast := &stubNotifier{name: "fast"}

	d := NewDispatcher([]Notifier{slow, fast}, 50*time.Millisecond, nil)

	start := time.Now()
	results := d.Dispatch(context.Background(), NewMessage(testReport(), revertedResult()))
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("slow channel was not cut off, took %v", elapsed)
	}

	if results[0].Success {
		t.Error("slow channel should have failed")
	}
	if !strings.Contains(results[0].Error, context.DeadlineExceeded.Error()) {
		t.Errorf("unexpected error: %s", results[0].Error)
	}
	if !results[1].Success {
		t.Error("fast channel should still run")
	}
}

func TestDispatcherEmpty(t *testing.T) {
	d := NewDispatcher(nil, 0, nil)
	if d.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", d.timeout, DefaultTimeout)
	}
	if results := d.Dispatch(context.Background(), NewMessage(testReport(), revertedResult())); results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}
