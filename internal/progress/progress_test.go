package progress

import (
	"errors"
	"testing"
	"time"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	h := r.Start(100, "arrancando")
	if h.ID() == "" {
		t.Fatal("expected a process id")
	}
	if r.Get(h.ID()) != h {
		t.Error("Get should return the started handle")
	}
	if r.Get("missing") != nil {
		t.Error("unknown id should return nil")
	}

	r.Clear(h.ID())
	if r.Get(h.ID()) != nil {
		t.Error("cleared handle should be gone")
	}
}

func TestHandleSnapshot(t *testing.T) {
	r := NewRegistry()
	h := r.Start(200, "procesando archivo")

	s := h.Snapshot()
	if s.State != StateRunning || s.Total != 200 || s.Percent != 0 {
		t.Errorf("initial snapshot: %+v", s)
	}

	h.Update(50, "a mitad")
	s = h.Snapshot()
	if s.Percent != 50 || s.Current != 100 || s.Message != "a mitad" {
		t.Errorf("after update: %+v", s)
	}

	h.Update(150, "")
	if s = h.Snapshot(); s.Percent != 100 {
		t.Errorf("percent should clamp at 100, got %d", s.Percent)
	}

	h.Finish("listo")
	s = h.Snapshot()
	if s.State != StateDone || s.Percent != 100 || s.FinishedAt == "" {
		t.Errorf("after finish: %+v", s)
	}
}

func TestHandleFail(t *testing.T) {
	r := NewRegistry()
	h := r.Start(10, "")
	h.Fail(errors.New("boom"))

	s := h.Snapshot()
	if s.State != StateFailed || s.Error != "boom" {
		t.Errorf("after fail: %+v", s)
	}
}

func TestEvictFinished(t *testing.T) {
	r := NewRegistry()
	finished := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		h := r.Start(10, "")
		h.Finish("listo")
		finished = append(finished, h.ID())
	}
	running := r.Start(10, "")
	failed := r.Start(10, "")
	failed.Fail(errors.New("boom"))

	// Negative age: everything already finished counts as stale.
	if n := r.EvictFinished(-time.Hour); n != 101 {
		t.Fatalf("evicted = %d, want 101", n)
	}
	for _, id := range finished {
		if r.Get(id) != nil {
			t.Fatalf("finished handle %s should be evicted", id)
		}
	}
	if r.Get(failed.ID()) != nil {
		t.Error("failed handle should be evicted")
	}
	if r.Get(running.ID()) == nil {
		t.Error("running handle must survive eviction")
	}

	// A generous age keeps recently finished entries readable.
	h := r.Start(10, "")
	h.Finish("")
	if n := r.EvictFinished(time.Hour); n != 0 {
		t.Errorf("evicted = %d, want 0", n)
	}
	if r.Get(h.ID()) == nil {
		t.Error("recently finished handle should still be readable")
	}
}

func TestNilHandleIsSafe(t *testing.T) {
	var h *Handle
	h.Update(10, "x")
	h.Finish("x")
	h.Fail(errors.New("x"))
	if h.ID() != "" {
		t.Error("nil handle id should be empty")
	}
	if s := h.Snapshot(); s.ID != "" {
		t.Error("nil handle snapshot should be zero")
	}
}
