package dispatch

import "testing"

func TestSlot_CompleteBeforeAbandon(t *testing.T) {
	s := newSlot()
	if !s.start() {
		t.Fatal("start should succeed on a pending slot")
	}
	if !s.complete(result{value: 1}) {
		t.Fatal("complete should succeed on a running slot")
	}
	if got := s.abandon(); got != stateDone {
		t.Errorf("abandon() = %d, want stateDone", got)
	}
	if r := <-s.ch; r.value != 1 {
		t.Errorf("result = %v, want 1", r.value)
	}
}

func TestSlot_AbandonBeforeStart(t *testing.T) {
	s := newSlot()
	if got := s.abandon(); got != statePending {
		t.Errorf("abandon() = %d, want statePending", got)
	}
	if s.start() {
		t.Error("start must fail after abandon")
	}
}

func TestSlot_AbandonWhileRunning(t *testing.T) {
	s := newSlot()
	s.start()
	if got := s.abandon(); got != stateRunning {
		t.Errorf("abandon() = %d, want stateRunning", got)
	}
	if s.complete(result{value: 1}) {
		t.Error("complete must fail after abandon")
	}
	if len(s.ch) != 0 {
		t.Error("late result must not be published")
	}
}
