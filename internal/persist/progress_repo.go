package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tankgo/sim/internal/progress"
)

// ProfileRow is the persisted run profile. A single-row table keyed by
// profile name: the simulation runs one profile at a time.
type ProfileRow struct {
	Name       string
	Gold       int
	XP         int
	Zone       int
	Act        int
	WavesDone  int
	TotalKills int
	TankHP     int
	UpdatedAt  time.Time
}

type ProgressRepo struct {
	db      *DB
	profile string
}

func NewProgressRepo(db *DB, profile string) *ProgressRepo {
	if profile == "" {
		profile = "default"
	}
	return &ProgressRepo{db: db, profile: profile}
}

// Load returns the stored profile, or nil if none exists yet.
func (r *ProgressRepo) Load(ctx context.Context) (*ProfileRow, error) {
	row := &ProfileRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, gold, xp, zone, act, waves_done, total_kills, tank_hp, updated_at
		 FROM profiles WHERE name = $1`, r.profile,
	).Scan(
		&row.Name, &row.Gold, &row.XP, &row.Zone, &row.Act,
		&row.WavesDone, &row.TotalKills, &row.TankHP, &row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// SaveProfile upserts the snapshot. Implements system.ProfileStore.
func (r *ProgressRepo) SaveProfile(ctx context.Context, snap progress.Snapshot) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO profiles (name, gold, xp, zone, act, waves_done, total_kills, tank_hp, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (name) DO UPDATE SET
		   gold = EXCLUDED.gold,
		   xp = EXCLUDED.xp,
		   zone = EXCLUDED.zone,
		   act = EXCLUDED.act,
		   waves_done = EXCLUDED.waves_done,
		   total_kills = EXCLUDED.total_kills,
		   tank_hp = EXCLUDED.tank_hp,
		   updated_at = NOW()`,
		r.profile, snap.Gold, snap.XP, snap.Zone, snap.Act,
		snap.WavesDone, snap.TotalKills, snap.TankHP,
	)
	return err
}

// SaveWaveRecord appends a wave metrics row for offline analysis.
func (r *ProgressRepo) SaveWaveRecord(ctx context.Context, rec progress.WaveRecord) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO wave_records (profile, zone, act, duration_ms, kills, xp, gold)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.profile, rec.Zone, rec.Act, rec.Duration.Milliseconds(), rec.Kills, rec.XP, rec.Gold,
	)
	return err
}
