package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the tuning formulas: zone
// scaling multipliers and kill-reward curves. Single-goroutine access only
// (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: core/ first, then balance/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "balance"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory. Missing dirs are skipped.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// EnemyScaling calls the Lua calc_enemy_scaling(tier, zone, act) function.
// A missing function or a malformed return is an error — the caller treats
// it as InvalidConfig and skips the spawn, it must not guess stats.
func (e *Engine) EnemyScaling(tier string, zone, act int) (hpMult, damageMult float64, err error) {
	fn := e.vm.GetGlobal("calc_enemy_scaling")
	if fn == lua.LNil {
		return 0, 0, fmt.Errorf("lua function calc_enemy_scaling not found")
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(tier), lua.LNumber(zone), lua.LNumber(act)); err != nil {
		return 0, 0, fmt.Errorf("lua calc_enemy_scaling: %w", err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return 0, 0, fmt.Errorf("lua calc_enemy_scaling returned %s, want table", result.Type())
	}

	hpMult = float64(lua.LVAsNumber(rt.RawGetString("hp_mult")))
	damageMult = float64(lua.LVAsNumber(rt.RawGetString("damage_mult")))
	if hpMult <= 0 || damageMult <= 0 {
		return 0, 0, fmt.Errorf("lua calc_enemy_scaling(%s, %d, %d): non-positive multipliers", tier, zone, act)
	}
	return hpMult, damageMult, nil
}

// KillReward calls the Lua calc_kill_reward(tier, zone, base_xp, base_gold)
// function and returns the scaled XP and gold for a kill.
func (e *Engine) KillReward(tier string, zone, baseXP, baseGold int) (xp, gold int, err error) {
	fn := e.vm.GetGlobal("calc_kill_reward")
	if fn == lua.LNil {
		return 0, 0, fmt.Errorf("lua function calc_kill_reward not found")
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, lua.LString(tier), lua.LNumber(zone), lua.LNumber(baseXP), lua.LNumber(baseGold)); err != nil {
		return 0, 0, fmt.Errorf("lua calc_kill_reward: %w", err)
	}

	goldV := e.vm.Get(-1)
	xpV := e.vm.Get(-2)
	e.vm.Pop(2)

	return int(lua.LVAsNumber(xpV)), int(lua.LVAsNumber(goldV)), nil
}
