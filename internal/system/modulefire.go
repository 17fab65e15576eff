package system

import (
	"errors"
	"time"

	"github.com/tankgo/sim/internal/core/ecs"
	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// EquippedModule 是裝備中的武器模組：模板加上插槽等級與冷卻計時。
type EquippedModule struct {
	Template *data.ModuleTemplate
	Level    int // 插槽等級，餵給傷害結算的 scaling 參數

	cooldownLeftMs float64
}

// ModuleFireSystem 驅動坦克武器模組自動開火（Phase 1, PostUpdate）。
// 冷卻結束且射程內有目標即發射；爆擊在發射時擲定，浮動每次命中各自擲。
type ModuleFireSystem struct {
	deps    *Deps
	modules []*EquippedModule
}

func NewModuleFireSystem(deps *Deps) *ModuleFireSystem {
	return &ModuleFireSystem{deps: deps}
}

func (s *ModuleFireSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// Equip 裝上一個模組。冷卻從滿值起算，避免開場瞬間齊射。
func (s *ModuleFireSystem) Equip(tpl *data.ModuleTemplate, level int) {
	if level < 0 {
		level = 0
	}
	s.modules = append(s.modules, &EquippedModule{
		Template:       tpl,
		Level:          level,
		cooldownLeftMs: float64(tpl.CooldownMs),
	})
	s.deps.Log.Info("模組裝備",
		zap.String("module", tpl.ID),
		zap.Int("level", level))
}

// Equipped 回傳目前裝備的模組列表。
func (s *ModuleFireSystem) Equipped() []*EquippedModule { return s.modules }

func (s *ModuleFireSystem) Update(dt time.Duration) {
	dtMs := dt.Seconds() * 1000

	for _, m := range s.modules {
		if m.cooldownLeftMs > 0 {
			m.cooldownLeftMs -= dtMs
		}
		if m.cooldownLeftMs > 0 {
			continue
		}
		if s.fire(m) {
			m.cooldownLeftMs = float64(m.Template.CooldownMs)
		}
		// 未能發射（無目標或池滿）時冷卻停在零，下一 tick 重試
	}
}

// fire 嘗試對射程內最近的敵人發射一發投射物，回傳是否成功。
func (s *ModuleFireSystem) fire(m *EquippedModule) bool {
	st := s.deps.State
	tpl := m.Template
	tankX := st.Tank.X

	target := s.deps.Oracle.ClosestEnemy(st.Enemies, tankX, tpl.Range)
	if target == nil {
		return false
	}

	p, err := st.Projectiles.Acquire()
	if err != nil {
		if errors.Is(err, ecs.ErrPoolExhausted) {
			s.deps.Log.Debug("投射物池耗盡，延後發射", zap.String("module", tpl.ID))
			return false
		}
		s.deps.Log.Error("投射物取得失敗", zap.String("module", tpl.ID), zap.Error(err))
		return false
	}

	crit := false
	if s.deps.Rng != nil && st.Tank.Stats.CritChance > 0 {
		crit = s.deps.Rng.Float64() < st.Tank.Stats.CritChance
	}

	vx := tpl.Speed
	if target.X < tankX {
		vx = -tpl.Speed
	}

	var homing ecs.Handle
	if tpl.Homing {
		homing = target.Handle
	}

	p.Activate(world.ProjectileConfig{
		Kind:         tpl.Kind,
		Damage:       tpl.Damage,
		SlotLevel:    m.Level,
		Crit:         crit,
		AoERadius:    tpl.AoERadius,
		Piercing:     tpl.Piercing,
		MaxHits:      tpl.MaxPierceHits,
		HomingTarget: homing,
		X:            tankX,
		VX:           vx,
	})

	s.deps.Log.Debug("模組發射",
		zap.String("module", tpl.ID),
		zap.String("target", target.ID),
		zap.Bool("crit", crit))

	return true
}
