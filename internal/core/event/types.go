package event

import "time"

// One struct per event kind — payload shapes are checked at compile time,
// subscribers never unpack string-keyed maps.

// EnemyDied fires exactly once per enemy activation, on the hit that drops
// HP to zero or below.
type EnemyDied struct {
	EnemyID     string
	Category    string
	XPAwarded   int
	GoldAwarded int
}

// WaveStarted fires when a wave's spawn queue has been built.
type WaveStarted struct {
	WaveNumber int
	ZoneNumber int
	ActNumber  int
	EnemyCount int
	IsBossWave bool
}

// WaveCompleted fires when kills reach the wave total.
type WaveCompleted struct {
	WaveNumber int
	ZoneNumber int
	Duration   time.Duration
	Kills      int
	XPGained   int
	GoldGained int
}

// ZoneCompleted fires after the terminal wave of a zone is cleared and its
// pause expires.
type ZoneCompleted struct {
	ZoneNumber int
	ActNumber  int
}

// ZoneChanged fires when the progression tracker advances (or is forced) to a
// new zone. The wave scheduler resets all wave state on receipt.
type ZoneChanged struct {
	FromZone int
	ToZone   int
	ActNumber int
}
