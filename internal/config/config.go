package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at boot. Phase hold
// durations that are not host-tunable (reveal choreography, intermissions)
// live here so tests can shrink them.
type Config struct {
	Addr   string
	AppEnv string

	// PhaseMinSeconds is the clamp floor applied to host-supplied phase
	// durations. Historically this has moved between 10s and 60s, so it
	// stays configurable.
	PhaseMinSeconds int

	NotebookMaxLen int

	StartCountdown     time.Duration
	RoleRevealDuration time.Duration
	DayZeroDuration    time.Duration
	DeathReveal        time.Duration
	NoDeathPause       time.Duration
	EliminationResults time.Duration
}

const (
	// Role reveal is title lead + hold + fade on the client.
	defaultRoleReveal = 1*time.Second + 3*time.Second + 700*time.Millisecond
)

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:               getString("ADDR", ":8080"),
		AppEnv:             getString("APP_ENV", "dev"),
		PhaseMinSeconds:    getInt("PHASE_MIN_SECONDS", 10),
		NotebookMaxLen:     getInt("NOTEBOOK_MAX_LEN", 5000),
		StartCountdown:     getDuration("START_COUNTDOWN", 5*time.Second),
		RoleRevealDuration: getDuration("ROLE_REVEAL_DURATION", defaultRoleReveal),
		DayZeroDuration:    getDuration("DAY_ZERO_DURATION", 10*time.Second),
		DeathReveal:        getDuration("DEATH_REVEAL_DURATION", 5*time.Second),
		NoDeathPause:       getDuration("NO_DEATH_PAUSE", 3*time.Second),
		EliminationResults: getDuration("ELIMINATION_RESULTS_DURATION", 5*time.Second),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
