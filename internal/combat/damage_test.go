package combat

import (
	"math"
	"math/rand"
	"testing"
)

func TestResolveBase(t *testing.T) {
	if got := Resolve(100, 0, 0, false, 0, nil); got != 100 {
		t.Fatalf("Resolve(100,0,0,false,0,-) = %d, want 100", got)
	}
}

func TestResolveScaling(t *testing.T) {
	if got := Resolve(100, 25, 0, false, 0, nil); got != 125 {
		t.Fatalf("25%% scaling: got %d, want 125", got)
	}
}

func TestResolveStatBonus(t *testing.T) {
	if got := Resolve(100, 0, 0.5, false, 0, nil); got != 150 {
		t.Fatalf("+50%% stat bonus: got %d, want 150", got)
	}
}

func TestResolveCrit(t *testing.T) {
	// Crit base multiplier is fixed at 2.0; bonus stacks additively.
	if got := Resolve(100, 0, 0, true, 1.0, nil); got != 300 {
		t.Fatalf("crit with +100%% bonus: got %d, want 300", got)
	}
	if got := Resolve(100, 0, 0, true, 0, nil); got != 200 {
		t.Fatalf("plain crit: got %d, want 200", got)
	}
}

func TestResolveVarianceBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lo := int(math.Floor(100 * VarianceMin))
	hi := int(math.Floor(100 * VarianceMax))
	for i := 0; i < 1000; i++ {
		got := Resolve(100, 0, 0, false, 0, rng)
		if got < lo || got > hi {
			t.Fatalf("varianced result %d outside [%d, %d]", got, lo, hi)
		}
	}
}

func TestResolveOrderOfOperations(t *testing.T) {
	// floor happens once, at the end: 100 * 1.1 * 1.15 = 126.5 → 126.
	if got := Resolve(100, 10, 0.15, false, 0, nil); got != 126 {
		t.Fatalf("combined scaling+stat: got %d, want 126", got)
	}
}

func TestResolveInvalidInputClamps(t *testing.T) {
	if got := Resolve(-50, 0, 0, false, 0, nil); got != 0 {
		t.Fatalf("negative base: got %d, want 0", got)
	}
	if got := Resolve(math.NaN(), 0, 0, false, 0, nil); got != 0 {
		t.Fatalf("NaN base: got %d, want 0", got)
	}
}

func TestSplashFalloffEndpoints(t *testing.T) {
	// At distance 0: floor(D*0.5). At the radius edge: floor(D*0.25).
	if got := SplashDamage(200, 0, 100); got != 100 {
		t.Fatalf("splash at 0: got %d, want 100", got)
	}
	if got := SplashDamage(200, 100, 100); got != 50 {
		t.Fatalf("splash at edge: got %d, want 50", got)
	}
	// Midpoint decays linearly: falloff 0.75 → floor(200*0.5*0.75) = 75.
	if got := SplashDamage(200, 50, 100); got != 75 {
		t.Fatalf("splash at midpoint: got %d, want 75", got)
	}
}

func TestSplashOutsideRadius(t *testing.T) {
	if got := SplashDamage(200, 101, 100); got != 0 {
		t.Fatalf("splash beyond radius: got %d, want 0", got)
	}
	if got := SplashDamage(200, 0, 0); got != 0 {
		t.Fatalf("zero radius: got %d, want 0", got)
	}
}

func TestLifesteal(t *testing.T) {
	// floor(damage * level * 0.5 / 100)
	cases := []struct {
		damage, level, want int
	}{
		{200, 10, 10},
		{199, 10, 9},
		{100, 1, 0},
		{1000, 3, 15},
		{50, 0, 0},
		{0, 10, 0},
	}
	for _, c := range cases {
		if got := Lifesteal(c.damage, c.level); got != c.want {
			t.Errorf("Lifesteal(%d, %d) = %d, want %d", c.damage, c.level, got, c.want)
		}
	}
}

func TestValidDamageInput(t *testing.T) {
	if ValidDamageInput(math.NaN()) || ValidDamageInput(-1) || ValidDamageInput(math.Inf(1)) {
		t.Fatal("invalid inputs accepted")
	}
	if !ValidDamageInput(0) || !ValidDamageInput(999999) {
		t.Fatal("valid inputs rejected")
	}
}
