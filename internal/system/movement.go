package system

import (
	"math"
	"time"

	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// offscreenMargin 是出生距離之外再寬限的距離，超過即回收投射物。
const offscreenMargin = 200.0

// MovementSystem 推進所有實體位置並偵測重疊（Phase 1, PostUpdate）。
// 敵人朝坦克逼近並在攻擊距離處停步；投射物直線或追蹤飛行。
// 偵測到的重疊配對送進 CollisionSink，下一 tick 的戰鬥階段結算。
type MovementSystem struct {
	deps      *Deps
	collision CollisionSink
}

func NewMovementSystem(deps *Deps, collision CollisionSink) *MovementSystem {
	return &MovementSystem{deps: deps, collision: collision}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.moveEnemies(dtSec)
	s.moveProjectiles(dtSec)
	s.detectOverlaps()
}

// ==================== 敵人移動 ====================

// moveEnemies 讓存活敵人朝坦克逼近，步伐以攻擊距離為界鉗制，
// 避免離散步進越過坦克（越過的敵人近戰檢查會被側向條件擋下）。
func (s *MovementSystem) moveEnemies(dtSec float64) {
	tankX := s.deps.State.Tank.X

	s.deps.State.Enemies.ForEachActive(func(e *world.Enemy) {
		if !e.Alive {
			return
		}
		dist := math.Abs(e.X - tankX)
		if dist <= e.AttackRange {
			return
		}
		step := e.Speed * dtSec
		if step > dist-e.AttackRange {
			step = dist - e.AttackRange
		}
		if e.X > tankX {
			e.X -= step
		} else {
			e.X += step
		}
	})
}

// ==================== 投射物移動 ====================

// moveProjectiles 推進投射物。追蹤彈每 tick 重新校準速度方向；
// 目標句柄過期（世代不符或已死亡）則維持原向直飛。
// 飛出畫面邊界的投射物收集後統一回收，不在迭代中釋放。
func (s *MovementSystem) moveProjectiles(dtSec float64) {
	st := s.deps.State
	bound := s.deps.Cfg.Wave.SpawnDistance + offscreenMargin
	tankX := st.Tank.X

	var expired []*world.Projectile

	st.Projectiles.ForEachActive(func(p *world.Projectile) {
		if !p.HomingTarget.IsZero() {
			target := st.Enemies.Lookup(p.HomingTarget)
			if target != nil && target.Alive {
				if target.X > p.X {
					p.VX = p.Speed
				} else {
					p.VX = -p.Speed
				}
			}
		}

		p.X += p.VX * dtSec

		if math.Abs(p.X-tankX) > bound {
			expired = append(expired, p)
		}
	})

	for _, p := range expired {
		s.deps.Log.Debug("投射物飛出邊界，回收", zap.String("kind", p.Kind.String()))
		st.Projectiles.Release(p)
	}
}

// ==================== 重疊偵測 ====================

// detectOverlaps 對每一發在飛投射物掃描存活敵人，命中測試為一維
// 點對盒。已命中過的目標不再排入（穿透彈去重在此與戰鬥端各擋一次）。
func (s *MovementSystem) detectOverlaps() {
	st := s.deps.State

	st.Projectiles.ForEachActive(func(p *world.Projectile) {
		st.Enemies.ForEachActive(func(e *world.Enemy) {
			if !e.Alive || p.HasHit(e.ID) {
				return
			}
			if s.deps.Oracle.Overlaps(p, e) {
				s.collision.QueueOverlap(p.Handle, e.Handle)
			}
		})
	})
}
