package system

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/tankgo/sim/internal/core/ecs"
	"github.com/tankgo/sim/internal/core/event"
	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// waveState — 同一時間恰好處於其中一態。
type waveState int

const (
	waveIdle waveState = iota
	waveInProgress
	wavePaused
)

// spawnEntry 是生成佇列的一筆排程。建佇列後不再刪除，只翻旗標：
// spawned 表示已生成，skipped 表示組態錯誤被放棄。
type spawnEntry struct {
	tpl     *data.EnemyTemplate
	delayMs float64
	side    world.Side
	spawned bool
	skipped bool
}

// SpawnGroup 是波次構成的一組（供測試與 WaveStarted 事件計數）。
type SpawnGroup struct {
	Template *data.EnemyTemplate
	Count    int
}

// WaveSystem 驅動波次狀態機（Phase 1, PostUpdate — 在戰鬥結算之後）。
// Idle → WaveInProgress → WavePaused → 下一波 | ZoneComplete。
// 死亡事件經 Events 階段回流 onEnemyDied，完成判定落在同一 tick。
type WaveSystem struct {
	deps    *Deps
	runSeed int64

	state       waveState
	currentWave int
	elapsedMs   float64
	queue       []spawnEntry

	spawned    int
	killed     int
	total      int
	xpGained   int
	goldGained int

	pauseLeftMs   float64
	restartLeftMs float64
	restartArmed  bool
}

func NewWaveSystem(deps *Deps, runSeed int64) *WaveSystem {
	s := &WaveSystem{deps: deps, runSeed: runSeed}
	event.Subscribe(deps.Bus, s.onEnemyDied)
	event.Subscribe(deps.Bus, s.onZoneChanged)
	return s
}

func (s *WaveSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// CurrentWave returns the wave number the scheduler is on (0 = none yet).
func (s *WaveSystem) CurrentWave() int { return s.currentWave }

// Progress returns (killed, total) for the current wave.
func (s *WaveSystem) Progress() (killed, total int) { return s.killed, s.total }

// InProgress reports whether a wave is actively spawning/fighting.
func (s *WaveSystem) InProgress() bool { return s.state == waveInProgress }

// ==================== 波次啟動 ====================

// ErrWaveInProgress — StartWave 在波次進行中被重複呼叫。
var ErrWaveInProgress = errors.New("wave already in progress")

// StartWave 建立波次構成與生成佇列。重複啟動是呼叫方錯誤：
// 記一筆警告後忽略（不可中斷進行中的波次）。
func (s *WaveSystem) StartWave(n int) error {
	if s.state == waveInProgress {
		s.deps.Log.Warn("波次進行中，忽略重複啟動", zap.Int("wave", n))
		return ErrWaveInProgress
	}

	zone := s.deps.Sink.CurrentZone()
	act := s.deps.Sink.CurrentAct()

	groups, isBossWave := s.Composition(n, zone)
	s.queue = s.buildQueue(groups, n, zone)

	s.state = waveInProgress
	s.currentWave = n
	s.elapsedMs = 0
	s.spawned = 0
	s.killed = 0
	s.xpGained = 0
	s.goldGained = 0
	s.total = 0
	for _, g := range groups {
		s.total += g.Count
	}

	event.Emit(s.deps.Bus, event.WaveStarted{
		WaveNumber: n,
		ZoneNumber: zone,
		ActNumber:  act,
		EnemyCount: s.total,
		IsBossWave: isBossWave,
	})

	s.deps.Log.Info("波次開始",
		zap.Int("wave", n),
		zap.Int("zone", zone),
		zap.Int("act", act),
		zap.Int("enemies", s.total),
		zap.Bool("boss", isBossWave))

	// 空構成（模板缺失）直接結算，不讓波次卡死
	s.completeIfDone()

	return nil
}

// Composition 由波數與區域決定性地產出波次構成。
// 第 1~6 波：雜兵數 = 4+波數，第 3 波起每波多一名菁英。
// 終末波（第 7 波）：第 1 區為單一超菁英，第 2 區起為單一魔王。
func (s *WaveSystem) Composition(wave, zone int) ([]SpawnGroup, bool) {
	cfg := s.deps.Cfg.Wave
	if wave >= cfg.WavesPerZone {
		tier := data.TierSuperElite
		if zone >= 2 {
			tier = data.TierBoss
		}
		tpl := s.deps.Enemies.RosterFor(tier, zone)
		if tpl == nil {
			s.deps.Log.Error("終末波缺少模板", zap.String("tier", tier.String()), zap.Int("zone", zone))
			return nil, tier == data.TierBoss
		}
		return []SpawnGroup{{Template: tpl, Count: 1}}, tier == data.TierBoss
	}

	var groups []SpawnGroup
	if fodder := s.deps.Enemies.RosterFor(data.TierFodder, zone); fodder != nil {
		groups = append(groups, SpawnGroup{Template: fodder, Count: 4 + wave})
	}
	if wave >= 3 {
		if elite := s.deps.Enemies.RosterFor(data.TierElite, zone); elite != nil {
			groups = append(groups, SpawnGroup{Template: elite, Count: wave - 2})
		}
	}
	return groups, false
}

// buildQueue 依序排程：雜兵固定間隔，菁英追加停頓後以兩倍間隔，
// 終末單位再追加停頓。側向由波種子決定起始側後嚴格交替；
// 魔王固定右側登場，超菁英由種子擲 50/50。
func (s *WaveSystem) buildQueue(groups []SpawnGroup, wave, zone int) []spawnEntry {
	cfg := s.deps.Cfg.Wave
	seed := s.waveSeed(zone, wave)

	side := world.SideLeft
	if seed[0]&1 == 1 {
		side = world.SideRight
	}

	var queue []spawnEntry
	delay := 0.0
	for _, g := range groups {
		interval := float64(cfg.FodderIntervalMs)
		switch g.Template.Tier {
		case data.TierElite:
			delay += float64(cfg.EliteDelayMs)
			interval = float64(cfg.EliteIntervalMs)
		case data.TierSuperElite, data.TierBoss:
			delay += float64(cfg.TerminalDelayMs)
		}
		for i := 0; i < g.Count; i++ {
			entrySide := side
			switch g.Template.Tier {
			case data.TierBoss:
				entrySide = world.SideRight // 魔王固定登場側
			case data.TierSuperElite:
				entrySide = world.SideLeft
				if seed[1]&1 == 1 {
					entrySide = world.SideRight
				}
			}
			queue = append(queue, spawnEntry{
				tpl:     g.Template,
				delayMs: delay,
				side:    entrySide,
			})
			side = side.Opposite()
			delay += interval
		}
	}
	return queue
}

// waveSeed 以 BLAKE2b 從 (runSeed, zone, wave) 導出波種子，
// 同一 runSeed 的重播會得到完全相同的生成側序。
func (s *WaveSystem) waveSeed(zone, wave int) [32]byte {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(s.runSeed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(zone))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(wave))
	return blake2b.Sum256(buf[:])
}

// ==================== 每 tick 推進 ====================

func (s *WaveSystem) Update(dt time.Duration) {
	dtMs := dt.Seconds() * 1000

	switch s.state {
	case waveIdle:
		if s.restartArmed {
			s.restartLeftMs -= dtMs
			if s.restartLeftMs <= 0 {
				s.restartArmed = false
				s.StartWave(1)
			}
		}

	case wavePaused:
		s.pauseLeftMs -= dtMs
		if s.pauseLeftMs <= 0 {
			if s.currentWave >= s.deps.Cfg.Wave.WavesPerZone {
				s.state = waveIdle
				zone := s.deps.Sink.CurrentZone()
				act := s.deps.Sink.CurrentAct()
				event.Emit(s.deps.Bus, event.ZoneCompleted{ZoneNumber: zone, ActNumber: act})
				s.deps.Log.Info("區域完成", zap.Int("zone", zone), zap.Int("act", act))
			} else {
				s.StartWave(s.currentWave + 1)
			}
		}

	case waveInProgress:
		s.elapsedMs += dtMs
		s.drainQueue()
	}
}

// drainQueue 掃描到期且未生成的排程。池滿或同屏上限擋下時保留原排程，
// 下一 tick 重試 — 排程永不丟失；組態缺失則放棄該筆並修正波次總數。
func (s *WaveSystem) drainQueue() {
	cfg := s.deps.Cfg
	zone := s.deps.Sink.CurrentZone()
	act := s.deps.Sink.CurrentAct()

	for i := range s.queue {
		ent := &s.queue[i]
		if ent.spawned || ent.skipped || s.elapsedMs < ent.delayMs {
			continue
		}

		if cfg.Wave.MaxOnScreen > 0 && s.deps.State.Enemies.ActiveCount() >= cfg.Wave.MaxOnScreen {
			// 同屏上限：保留排程，下一 tick 重試
			continue
		}

		hpMult, dmgMult, err := s.deps.Scaling.EnemyScaling(ent.tpl.Tier.String(), zone, act)
		if err != nil {
			s.skipEntry(ent, err)
			continue
		}
		xp, gold, err := s.deps.Scaling.KillReward(ent.tpl.Tier.String(), zone, ent.tpl.XP, ent.tpl.Gold)
		if err != nil {
			s.skipEntry(ent, err)
			continue
		}

		e, err := s.deps.State.Enemies.Acquire()
		if err != nil {
			if errors.Is(err, ecs.ErrPoolExhausted) {
				// 池滿非致命：靜默壓低吞吐量，排程保留
				s.deps.Log.Debug("敵人池耗盡，延後生成", zap.String("category", ent.tpl.Category))
				continue
			}
			s.skipEntry(ent, err)
			continue
		}

		tankX := s.deps.State.Tank.X
		x := tankX - cfg.Wave.SpawnDistance
		if ent.side == world.SideRight {
			x = tankX + cfg.Wave.SpawnDistance
		}

		scaled := world.ScaledStats{
			HP:     int(math.Floor(float64(ent.tpl.HP) * hpMult)),
			Damage: int(math.Floor(float64(ent.tpl.Damage) * dmgMult)),
			XP:     xp,
			Gold:   gold,
		}
		e.Activate(ent.tpl, scaled, ent.side, x)
		ent.spawned = true
		s.spawned++

		s.deps.Log.Debug("敵人生成",
			zap.String("enemy", e.ID),
			zap.String("side", ent.side.String()),
			zap.Int("hp", e.MaxHP))
	}
}

// skipEntry 放棄一筆組態錯誤的排程：生成時致命、記錄、跳過。
// 波次總數同步下修，否則擊殺數永遠追不上總數。
func (s *WaveSystem) skipEntry(ent *spawnEntry, err error) {
	s.deps.Log.Error("生成組態無效，放棄排程",
		zap.String("category", ent.tpl.Category),
		zap.Error(err))
	ent.skipped = true
	s.total--
	s.completeIfDone()
}

// ==================== 死亡與完成 ====================

// onEnemyDied 消化死亡事件：計數、轉發獎勵、判定波次完成。
// 經由 Events 階段派送，發生於生成處理之後、同一 tick 之內。
func (s *WaveSystem) onEnemyDied(ev event.EnemyDied) {
	s.deps.Sink.AddXP(ev.XPAwarded, ev.EnemyID)
	s.deps.Sink.AddGold(ev.GoldAwarded, ev.EnemyID)

	if s.state != waveInProgress {
		return
	}
	s.killed++
	s.xpGained += ev.XPAwarded
	s.goldGained += ev.GoldAwarded
	s.completeIfDone()
}

func (s *WaveSystem) completeIfDone() {
	if s.state != waveInProgress || s.killed < s.total {
		return
	}

	duration := time.Duration(s.elapsedMs) * time.Millisecond
	s.state = wavePaused
	s.pauseLeftMs = float64(s.deps.Cfg.Wave.PauseMs)

	event.Emit(s.deps.Bus, event.WaveCompleted{
		WaveNumber: s.currentWave,
		ZoneNumber: s.deps.Sink.CurrentZone(),
		Duration:   duration,
		Kills:      s.killed,
		XPGained:   s.xpGained,
		GoldGained: s.goldGained,
	})
	s.deps.Sink.CompleteWave(duration, s.killed, s.xpGained, s.goldGained)

	s.deps.Log.Info("波次完成",
		zap.Int("wave", s.currentWave),
		zap.Duration("duration", duration),
		zap.Int("kills", s.killed))
}

// ==================== 區域切換 ====================

// onZoneChanged 外部區域切換訊號：清空波次狀態、回收所有實體、
// 丟棄未生成的排程（不補發），短暫延遲後自第 1 波重啟。
func (s *WaveSystem) onZoneChanged(ev event.ZoneChanged) {
	s.state = waveIdle
	s.currentWave = 0
	s.elapsedMs = 0
	s.queue = nil
	s.spawned = 0
	s.killed = 0
	s.total = 0
	s.xpGained = 0
	s.goldGained = 0
	s.pauseLeftMs = 0

	s.deps.State.Enemies.ReleaseAll()
	s.deps.State.Projectiles.ReleaseAll()

	s.restartArmed = true
	s.restartLeftMs = float64(s.deps.Cfg.Wave.ZoneRestartMs)

	s.deps.Log.Info("區域切換，重置波次狀態",
		zap.Int("from", ev.FromZone),
		zap.Int("to", ev.ToZone))
}
