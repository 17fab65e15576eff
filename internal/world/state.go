package world

// State aggregates everything the tick systems mutate. Owned by the game-loop
// goroutine; never shared, never locked.
type State struct {
	Enemies     *EnemyPool
	Projectiles *ProjectilePool
	Tank        *Tank
}

func NewState(enemyCap, projectileCap int, tank *Tank) *State {
	return &State{
		Enemies:     NewEnemyPool(enemyCap),
		Projectiles: NewProjectilePool(projectileCap),
		Tank:        tank,
	}
}
