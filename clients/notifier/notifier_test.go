package notifier

import (
	"errors"
	"testing"
)

type stubNotifier struct {
	alerts   []Alert
	closed   bool
	closeErr error
}

func (s *stubNotifier) SendAlert(alert Alert) {
	s.alerts = append(s.alerts, alert)
}

func (s *stubNotifier) Close() error {
	s.closed = true
	return s.closeErr
}

func TestMultiNotifierFanOut(t *testing.T) {
	a := &stubNotifier{}
	b := &stubNotifier{}
	multi := NewMultiNotifier(a, b)

	multi.SendAlert(Alert{Symbol: "TST", ValueUSD: 50})

	if len(a.alerts) != 1 || len(b.alerts) != 1 {
		t.Errorf("expected both sinks to receive the alert, got %d and %d", len(a.alerts), len(b.alerts))
	}
	if a.alerts[0].Symbol != "TST" {
		t.Errorf("unexpected alert: %+v", a.alerts[0])
	}
}

func TestMultiNotifierFiltersNil(t *testing.T) {
	a := &stubNotifier{}
	multi := NewMultiNotifier(nil, a, nil)

	if multi.Count() != 1 {
		t.Errorf("expected 1 active notifier, got %d", multi.Count())
	}

	multi.SendAlert(Alert{})
	if len(a.alerts) != 1 {
		t.Errorf("expected alert delivery, got %d", len(a.alerts))
	}
}

func TestMultiNotifierClose(t *testing.T) {
	a := &stubNotifier{closeErr: errors.New("a failed")}
	b := &stubNotifier{}
	multi := NewMultiNotifier(a, b)

	err := multi.Close()

	if !a.closed || !b.closed {
		t.Error("expected all notifiers to be closed")
	}
	if err == nil || err.Error() != "a failed" {
		t.Errorf("expected close error to surface, got %v", err)
	}
}

func TestMultiNotifierEmpty(t *testing.T) {
	multi := NewMultiNotifier()

	if multi.Count() != 0 {
		t.Errorf("expected 0 notifiers, got %d", multi.Count())
	}
	multi.SendAlert(Alert{})
	if err := multi.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
