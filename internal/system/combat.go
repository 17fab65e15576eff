package system

import (
	"fmt"
	"time"

	"github.com/tankgo/sim/internal/combat"
	"github.com/tankgo/sim/internal/core/ecs"
	"github.com/tankgo/sim/internal/core/event"
	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// CombatSystem 處理佇列中的碰撞訊號與近戰攻擊（Phase 0, Update）。
// MovementSystem 偵測重疊後呼叫 QueueOverlap()；本系統依序結算傷害、
// AoE 濺射、吸血，死亡時發出 EnemyDied 事件（同 tick 的 Events 階段派送）。
type CombatSystem struct {
	deps  *Deps
	pairs []overlapPair
}

type overlapPair struct {
	projectile ecs.Handle
	enemy      ecs.Handle
}

func NewCombatSystem(deps *Deps) *CombatSystem {
	return &CombatSystem{deps: deps}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// QueueOverlap implements CollisionSink — 由碰撞來源（MovementSystem）呼叫。
// 弱引用：結算時以 generation 驗證，過期配對直接丟棄。
func (s *CombatSystem) QueueOverlap(projectile, enemy ecs.Handle) {
	s.pairs = append(s.pairs, overlapPair{projectile: projectile, enemy: enemy})
}

func (s *CombatSystem) Update(dt time.Duration) {
	for _, pair := range s.pairs {
		s.resolveHit(pair)
	}
	s.pairs = s.pairs[:0]

	s.tickMelee(dt)
}

// ==================== 投射物命中 ====================

func (s *CombatSystem) resolveHit(pair overlapPair) {
	st := s.deps.State
	p := st.Projectiles.Lookup(pair.projectile)
	e := st.Enemies.Lookup(pair.enemy)

	// 任一方已失效/死亡則跳過（同 tick 多次命中已死目標為 no-op）
	if p == nil || e == nil || !p.Active || !e.Active || !e.Alive {
		return
	}

	// 穿透彈不可重複命中同一目標
	if p.HasHit(e.ID) {
		return
	}

	base := float64(p.Damage)
	if !combat.ValidDamageInput(base) {
		// 呼叫方契約違反：debug 模式直接 fatal，release 模式鉗制為零並記錄
		if s.deps.Cfg.Combat.StrictMath {
			panic(fmt.Sprintf("combat: invalid base damage %v from projectile %s", base, p.Kind))
		}
		s.deps.Log.Error("無效的基礎傷害，鉗制為零",
			zap.Float64("base", base),
			zap.String("kind", p.Kind.String()))
		base = 0
	}

	stats := st.Tank.Stats
	rng := s.deps.Rng
	if !s.deps.Cfg.Combat.ApplyVariance {
		rng = nil
	}

	p.RegisterHit(e.ID)

	direct := combat.Resolve(base, p.SlotLevel, stats.DamageBonus, p.Crit, stats.CritBonus, rng)
	dealt := s.applyDamage(e, direct)
	totalDealt := dealt

	// AoE 濺射：以主目標為圓心，排除主目標，線性衰減
	if p.AoERadius > 0 {
		centerX := e.X
		s.deps.Oracle.EnemiesWithin(st.Enemies, centerX, p.AoERadius, e.ID, func(other *world.Enemy, dist float64) {
			splash := combat.SplashDamage(float64(direct), dist, p.AoERadius)
			totalDealt += s.applyDamage(other, splash)
		})
	}

	// 吸血：以實際造成的總傷害計算
	if heal := combat.Lifesteal(totalDealt, stats.LifestealLevel); heal > 0 {
		s.deps.Sink.Heal(heal)
	}

	// 穿透預算用盡即回收
	if p.Spent() {
		st.Projectiles.Release(p)
	}
}

// applyDamage 扣血並處理死亡，回傳實際造成的傷害。
// 死亡事件保證每次 activation 僅發出一次：跨越零的那一擊負責發出。
func (s *CombatSystem) applyDamage(e *world.Enemy, damage int) int {
	if damage <= 0 || !e.Alive {
		return 0
	}
	e.HP -= damage
	if e.HP > 0 {
		return damage
	}

	// 死亡：標記但不立即回收（屍體交由 CleanupSystem 延遲釋放）
	e.HP = 0
	e.Alive = false
	e.DeleteTicks = s.deps.Cfg.Combat.DeleteDelayTicks

	event.Emit(s.deps.Bus, event.EnemyDied{
		EnemyID:     e.ID,
		Category:    e.Category,
		XPAwarded:   e.XP,
		GoldAwarded: e.Gold,
	})

	s.deps.Log.Info("敵人被擊殺",
		zap.String("enemy", e.ID),
		zap.String("tier", e.Tier.String()),
		zap.Int("xp", e.XP),
		zap.Int("gold", e.Gold))

	return damage
}

// ==================== 近戰攻擊 ====================

// tickMelee 讓進入近戰範圍且冷卻結束的敵人攻擊坦克。
// 側向檢查：越過坦克的敵人在側翻解決前不會出手（刻意保留的行為）。
func (s *CombatSystem) tickMelee(dt time.Duration) {
	dtMs := dt.Seconds() * 1000
	tank := s.deps.State.Tank

	s.deps.State.Enemies.ForEachActive(func(e *world.Enemy) {
		if !e.Alive {
			return
		}
		if e.CooldownLeftMs > 0 {
			e.CooldownLeftMs -= dtMs
		}
		if e.CooldownLeftMs > 0 {
			return
		}
		if !s.deps.Oracle.InMeleeRange(e, tank.X) {
			return
		}
		// 坦克受擊走 Sink，與敵方受擊區分（UI 事件不同，傷害公式相同）
		s.deps.Sink.TakeDamage(e.Damage, e.ID, e.Category)
		e.CooldownLeftMs = float64(e.AttackCooldownMs)
	})
}
