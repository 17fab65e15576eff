package world

import (
	"github.com/tankgo/sim/internal/core/ecs"
)

// EnemyPool owns every Enemy slot for the process lifetime. Slots are
// preallocated once; Acquire/Release toggle them through the generational
// SlotPool so weak references (projectile homing targets) can be checked
// for staleness.
type EnemyPool struct {
	slots []Enemy
	pool  *ecs.SlotPool
}

func NewEnemyPool(capacity int) *EnemyPool {
	return &EnemyPool{
		slots: make([]Enemy, capacity),
		pool:  ecs.NewSlotPool(capacity),
	}
}

func (p *EnemyPool) Capacity() int    { return p.pool.Capacity() }
func (p *EnemyPool) ActiveCount() int { return p.pool.ActiveCount() }

// Acquire returns an inactive slot or ecs.ErrPoolExhausted. The returned slot
// is not yet activated; the caller must call Activate before it is visible to
// the per-tick queries.
func (p *EnemyPool) Acquire() (*Enemy, error) {
	h, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	e := &p.slots[h.Index()]
	e.Handle = h
	return e, nil
}

// Release deactivates the slot and returns it to the pool.
func (p *EnemyPool) Release(e *Enemy) {
	h := e.Handle
	e.Deactivate()
	p.pool.Release(h)
}

// Lookup resolves a weak handle. Returns nil for stale or inactive handles —
// the caller treats that as "no target".
func (p *EnemyPool) Lookup(h ecs.Handle) *Enemy {
	if !p.pool.Alive(h) {
		return nil
	}
	return &p.slots[h.Index()]
}

// ForEachActive visits active slots in pool index order. The stable order is
// what makes first-found tie-breaking in range scans deterministic.
func (p *EnemyPool) ForEachActive(fn func(*Enemy)) {
	for i := range p.slots {
		if p.slots[i].Active {
			fn(&p.slots[i])
		}
	}
}

// ReleaseAll force-releases every active slot (zone change).
func (p *EnemyPool) ReleaseAll() {
	for i := range p.slots {
		if p.slots[i].Active {
			p.Release(&p.slots[i])
		}
	}
}

// ProjectilePool mirrors EnemyPool for projectiles.
type ProjectilePool struct {
	slots []Projectile
	pool  *ecs.SlotPool
}

func NewProjectilePool(capacity int) *ProjectilePool {
	return &ProjectilePool{
		slots: make([]Projectile, capacity),
		pool:  ecs.NewSlotPool(capacity),
	}
}

func (p *ProjectilePool) Capacity() int    { return p.pool.Capacity() }
func (p *ProjectilePool) ActiveCount() int { return p.pool.ActiveCount() }

func (p *ProjectilePool) Acquire() (*Projectile, error) {
	h, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	pr := &p.slots[h.Index()]
	pr.Handle = h
	return pr, nil
}

func (p *ProjectilePool) Release(pr *Projectile) {
	h := pr.Handle
	pr.Deactivate()
	p.pool.Release(h)
}

func (p *ProjectilePool) Lookup(h ecs.Handle) *Projectile {
	if !p.pool.Alive(h) {
		return nil
	}
	return &p.slots[h.Index()]
}

func (p *ProjectilePool) ForEachActive(fn func(*Projectile)) {
	for i := range p.slots {
		if p.slots[i].Active {
			fn(&p.slots[i])
		}
	}
}

func (p *ProjectilePool) ReleaseAll() {
	for i := range p.slots {
		if p.slots[i].Active {
			p.Release(&p.slots[i])
		}
	}
}
