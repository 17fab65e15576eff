package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tankgo/sim/internal/combat"
	"github.com/tankgo/sim/internal/config"
	"github.com/tankgo/sim/internal/core/event"
	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/persist"
	"github.com/tankgo/sim/internal/progress"
	"github.com/tankgo/sim/internal/scripting"
	"github.com/tankgo/sim/internal/system"
	"github.com/tankgo/sim/internal/web"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	tankStartX = 0
	tankMaxHP  = 1000
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             TankGo  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      放置型坦克 · Go 戰鬥模擬器           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	// Use rune count for CJK width calculation (each CJK char = 2 columns)
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := 46 - displayWidth - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := 42 - displayWidth - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load .env (optional) and config
	_ = godotenv.Load()

	cfgPath := "config/sim.toml"
	if p := os.Getenv("TANKGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dsn := os.Getenv("TANKGO_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Connect to PostgreSQL and run migrations (optional)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var db *persist.DB
	var progressRepo *persist.ProgressRepo
	if cfg.Database.Enabled {
		printSection("資料庫")
		db, err = persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")
		fmt.Println()

		progressRepo = persist.NewProgressRepo(db, os.Getenv("TANKGO_PROFILE"))
	}

	// 4. Load data tables
	printSection("資料載入")

	enemyTable, err := data.LoadEnemyTable(filepath.Join(cfg.Sim.DataDir, "enemy_list.yaml"))
	if err != nil {
		return fmt.Errorf("load enemy table: %w", err)
	}
	printStat("敵人模板", enemyTable.Count())

	moduleTable, err := data.LoadModuleTable(filepath.Join(cfg.Sim.DataDir, "module_list.yaml"))
	if err != nil {
		return fmt.Errorf("load module table: %w", err)
	}
	printStat("武器模組", moduleTable.Count())

	hitboxTable, err := data.LoadHitboxTable(filepath.Join(cfg.Sim.DataDir, "hitbox_list.yaml"))
	if err != nil {
		return fmt.Errorf("load hitbox table: %w", err)
	}
	printStat("碰撞盒", hitboxTable.Count())

	// 5. Initialize Lua scripting engine
	luaEngine, err := scripting.NewEngine(cfg.Sim.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua 腳本載入完成")
	fmt.Println()

	// 6. Build world state, bus, tracker
	tank := world.NewTank(tankStartX, tankMaxHP)
	state := world.NewState(cfg.Pool.EnemyCapacity, cfg.Pool.ProjectileCapacity, tank)
	bus := event.NewBus()
	tracker := progress.NewTracker(log, bus, tank, cfg.Wave.ZonesPerAct)

	// Restore persisted profile
	if progressRepo != nil {
		row, err := progressRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if row != nil {
			tracker.Restore(row.Gold, row.XP, row.Zone, row.Act, row.WavesDone, row.TotalKills)
			if row.TankHP > 0 && row.TankHP <= tank.MaxHP {
				tank.HP = row.TankHP
			}
			log.Info("讀取進度存檔",
				zap.Int("zone", row.Zone),
				zap.Int("gold", row.Gold),
				zap.Int("xp", row.XP))
		}
	}

	seed := cfg.Sim.RunSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	oracle := combat.NewOracle(hitboxTable, cfg.Combat.MeleeTolerance)
	deps := &system.Deps{
		Cfg:     cfg,
		Log:     log,
		Bus:     bus,
		State:   state,
		Oracle:  oracle,
		Sink:    tracker,
		Enemies: enemyTable,
		Scaling: luaEngine,
		Rng:     rng,
	}

	// 7. Create systems and register with runner
	combatSys := system.NewCombatSystem(deps)
	waveSys := system.NewWaveSystem(deps, seed)
	fireSys := system.NewModuleFireSystem(deps)
	persistSys := system.NewPersistenceSystem(log, storeOrNil(progressRepo), tracker, cfg.Database.FlushInterval)

	runner := coresys.NewRunner()
	runner.Register(combatSys)
	runner.Register(waveSys)
	runner.Register(system.NewMovementSystem(deps, combatSys))
	runner.Register(fireSys)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(deps))

	// Equip every configured module at slot level 1
	for _, m := range moduleTable.All() {
		fireSys.Equip(m, 1)
	}

	// Zone progression: zone complete → advance → wave scheduler resets
	event.Subscribe(bus, func(event.ZoneCompleted) {
		tracker.AdvanceZone()
	})
	if progressRepo != nil {
		event.Subscribe(bus, func(ev event.WaveCompleted) {
			rec := progress.WaveRecord{
				Zone:     ev.ZoneNumber,
				Act:      tracker.CurrentAct(),
				Duration: ev.Duration,
				Kills:    ev.Kills,
				XP:       ev.XPGained,
				Gold:     ev.GoldGained,
			}
			wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer wcancel()
			if err := progressRepo.SaveWaveRecord(wctx, rec); err != nil {
				log.Error("波次紀錄寫入失敗", zap.Error(err))
			}
		})
	}

	// 8. Status endpoint (optional)
	var statusSrv *web.Server
	if cfg.Web.Enabled {
		statusSrv = web.NewServer(log)
		go func() {
			if err := statusSrv.Start(cfg.Web.BindAddress); err != nil {
				log.Error("status endpoint failed", zap.Error(err))
			}
		}()
	}

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("模擬就緒")
	printReady(fmt.Sprintf("隨機種子 %d", seed))
	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Sim.TickRate))
	if cfg.Web.Enabled {
		printReady(fmt.Sprintf("狀態端點 http://%s/status", cfg.Web.BindAddress))
	}
	fmt.Println()

	waveSys.StartWave(1)

	var tick uint64
	for {
		select {
		case <-ticker.C:
			tick++
			runner.Tick(cfg.Sim.TickRate)

			if statusSrv != nil {
				kills, total := waveSys.Progress()
				gold, xp, waves, totalKills := tracker.Totals()
				statusSrv.Publish(web.Status{
					Tick:          tick,
					Zone:          tracker.CurrentZone(),
					Act:           tracker.CurrentAct(),
					Wave:          waveSys.CurrentWave(),
					WaveKills:     kills,
					WaveTotal:     total,
					EnemiesActive: state.Enemies.ActiveCount(),
					Projectiles:   state.Projectiles.ActiveCount(),
					TankHP:        tank.HP,
					TankMaxHP:     tank.MaxHP,
					Gold:          gold,
					XP:            xp,
					WavesDone:     waves,
					TotalKills:    totalKills,
				})
			}

		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
			persistSys.Flush(flushCtx)
			flushCancel()
			if statusSrv != nil {
				statusSrv.Shutdown()
			}
			printSummary(tracker, tick, cfg.Sim.TickRate)
			log.Info("模擬已停止")
			return nil
		}
	}
}

// storeOrNil avoids handing the persistence system a typed-nil interface.
func storeOrNil(repo *persist.ProgressRepo) system.ProfileStore {
	if repo == nil {
		return nil
	}
	return repo
}

// printSummary prints the end-of-session report with grouped thousands.
func printSummary(t *progress.Tracker, ticks uint64, tickRate time.Duration) {
	gold, xp, waves, kills := t.Totals()
	taken, healed := t.DamageTotals()
	elapsed := time.Duration(ticks) * tickRate

	p := message.NewPrinter(language.English)
	fmt.Println()
	printSection("本次統計")
	p.Printf("  模擬時長 %v (%d ticks)\n", elapsed.Round(time.Second), ticks)
	p.Printf("  區域 %d · 完成波次 %d · 擊殺 %d\n", t.CurrentZone(), waves, kills)
	p.Printf("  金幣 %d · 經驗 %d\n", gold, xp)
	p.Printf("  承受傷害 %d · 吸血回復 %d\n", taken, healed)
	fmt.Println()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
