package ecs

import "errors"

// ErrPoolExhausted is returned by Acquire when every slot is in use.
// Callers skip or retry on a later tick; Acquire never blocks.
var ErrPoolExhausted = errors.New("ecs: slot pool exhausted")

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release, so a handle held across
// a release/acquire cycle of the same slot stops resolving instead of silently
// pointing at the new occupant.
type Handle uint64

func NewHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

// SlotPool manages a fixed set of reusable slots with generational handles and
// a free list. Capacity is fixed at creation; slots are never grown or freed
// for the life of the pool.
type SlotPool struct {
	generations []uint32
	active      []bool
	freeList    []uint32
}

func NewSlotPool(capacity int) *SlotPool {
	p := &SlotPool{
		generations: make([]uint32, capacity),
		active:      make([]bool, capacity),
		freeList:    make([]uint32, 0, capacity),
	}
	// Generations start at 1 so no live slot ever encodes to Handle(0);
	// the zero handle stays reserved as "no reference".
	for i := range p.generations {
		p.generations[i] = 1
	}
	// Free list is drained from the tail, so push indices in reverse to hand
	// out slot 0 first. Keeps iteration order stable for tie-breaking scans.
	for i := capacity - 1; i >= 0; i-- {
		p.freeList = append(p.freeList, uint32(i))
	}
	return p
}

func (p *SlotPool) Capacity() int { return len(p.generations) }

func (p *SlotPool) ActiveCount() int {
	return len(p.generations) - len(p.freeList)
}

// Acquire marks a free slot active and returns its handle, or ErrPoolExhausted.
func (p *SlotPool) Acquire() (Handle, error) {
	if len(p.freeList) == 0 {
		return 0, ErrPoolExhausted
	}
	idx := p.freeList[len(p.freeList)-1]
	p.freeList = p.freeList[:len(p.freeList)-1]
	p.active[idx] = true
	return NewHandle(idx, p.generations[idx]), nil
}

// Alive reports whether the handle still refers to the slot's current occupant.
func (p *SlotPool) Alive(h Handle) bool {
	idx := h.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.active[idx] && p.generations[idx] == h.Generation()
}

// Release returns the slot to the free list and bumps its generation,
// invalidating every outstanding handle to the released occupant.
// Releasing with a stale handle is a no-op.
func (p *SlotPool) Release(h Handle) {
	idx := h.Index()
	if int(idx) >= len(p.generations) {
		return
	}
	if !p.active[idx] || p.generations[idx] != h.Generation() {
		return // already released (stale handle)
	}
	p.generations[idx]++
	p.active[idx] = false
	p.freeList = append(p.freeList, idx)
}
