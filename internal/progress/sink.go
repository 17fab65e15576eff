package progress

import "time"

// Sink is the progression/economy collaborator the engine reports into.
// Append-only from the engine's point of view: systems write rewards and
// damage during a tick and never read back what they wrote in that tick.
type Sink interface {
	AddXP(amount int, source string)
	AddGold(amount int, source string)
	CurrentZone() int
	CurrentAct() int
	CompleteWave(duration time.Duration, kills, xp, gold int)
	TakeDamage(amount int, sourceID, sourceCategory string)
	Heal(amount int)
}
