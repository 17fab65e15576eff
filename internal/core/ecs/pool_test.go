package ecs

import "testing"

func TestAcquireRelease(t *testing.T) {
	p := NewSlotPool(4)
	h, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !p.Alive(h) {
		t.Fatal("freshly acquired handle not alive")
	}
	if got := p.ActiveCount(); got != 1 {
		t.Fatalf("ActiveCount = %d, want 1", got)
	}
	p.Release(h)
	if p.Alive(h) {
		t.Fatal("released handle still alive")
	}
	if got := p.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount after release = %d, want 0", got)
	}
}

func TestExhaustion(t *testing.T) {
	const cap = 3
	p := NewSlotPool(cap)
	handles := make([]Handle, 0, cap)
	for i := 0; i < cap; i++ {
		h, err := p.Acquire()
		if err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
		handles = append(handles, h)
	}
	if _, err := p.Acquire(); err != ErrPoolExhausted {
		t.Fatalf("Acquire past capacity: err = %v, want ErrPoolExhausted", err)
	}
	// The failed acquire must not have corrupted the live slots.
	for i, h := range handles {
		if !p.Alive(h) {
			t.Errorf("handle %d no longer alive after failed acquire", i)
		}
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	p := NewSlotPool(1)
	h1, _ := p.Acquire()
	p.Release(h1)
	h2, err := p.Acquire()
	if err != nil {
		t.Fatalf("re-acquire failed: %v", err)
	}
	if h1.Index() != h2.Index() {
		t.Fatalf("expected slot reuse, got index %d then %d", h1.Index(), h2.Index())
	}
	if h1 == h2 {
		t.Fatal("generation did not advance on reuse")
	}
	if p.Alive(h1) {
		t.Fatal("stale handle resolves after slot reuse")
	}
	if !p.Alive(h2) {
		t.Fatal("current handle does not resolve")
	}
}

func TestDoubleReleaseIsNoop(t *testing.T) {
	p := NewSlotPool(2)
	h, _ := p.Acquire()
	p.Release(h)
	p.Release(h) // stale, must not free the slot twice
	if got := p.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount = %d, want 0", got)
	}
	a, _ := p.Acquire()
	b, err := p.Acquire()
	if err != nil {
		t.Fatalf("second acquire failed after double release: %v", err)
	}
	if a.Index() == b.Index() {
		t.Fatal("double release handed out the same slot twice")
	}
}

func TestStableHandoutOrder(t *testing.T) {
	p := NewSlotPool(3)
	for want := uint32(0); want < 3; want++ {
		h, _ := p.Acquire()
		if h.Index() != want {
			t.Fatalf("handout order: got index %d, want %d", h.Index(), want)
		}
	}
}
