// Package config holds the runtime settings of the simulator binaries.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"airport-simulator/internal/game/passenger"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/internal/rand"

	"github.com/labstack/gommon/log"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config holds all simulator configuration.
type Config struct {
	// Simulation clock
	Seed         int64
	StepMinutes  int           // Simulated minutes per cycle
	Cycles       int           // Cycles run by the headless driver
	TickInterval time.Duration // Wall-clock pause between cycles

	// Lifecycle timing
	BoardingLead      time.Duration
	DelayLead         time.Duration
	DelayProbability  float64
	MinDelay          time.Duration
	MaxDelay          time.Duration
	CheckRunwayLength bool

	// Logging
	LogLevel     string
	LogDir       string
	EventLogSize int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	rules := simulation.DefaultRules()
	return Config{
		Seed:              1,
		StepMinutes:       10,
		Cycles:            10,
		TickInterval:      0,
		BoardingLead:      rules.BoardingLead,
		DelayLead:         rules.DelayLead,
		DelayProbability:  float64(rules.DelayProbability),
		MinDelay:          rules.MinDelay,
		MaxDelay:          rules.MaxDelay,
		CheckRunwayLength: false,
		LogLevel:          "info",
		LogDir:            "logs",
		EventLogSize:      50,
	}
}

// LoadFromEnv loads configuration from environment variables on top of
// the defaults. Unparseable values are ignored.
func LoadFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("AIRPORT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	cfg.StepMinutes = getEnvInt("AIRPORT_STEP_MINUTES", cfg.StepMinutes)
	cfg.Cycles = getEnvInt("AIRPORT_CYCLES", cfg.Cycles)
	cfg.TickInterval = getEnvDuration("AIRPORT_TICK_INTERVAL", cfg.TickInterval)
	cfg.BoardingLead = getEnvDuration("AIRPORT_BOARDING_LEAD", cfg.BoardingLead)
	cfg.DelayLead = getEnvDuration("AIRPORT_DELAY_LEAD", cfg.DelayLead)
	if v := os.Getenv("AIRPORT_DELAY_PROBABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DelayProbability = f
		}
	}
	cfg.MinDelay = getEnvDuration("AIRPORT_MIN_DELAY", cfg.MinDelay)
	cfg.MaxDelay = getEnvDuration("AIRPORT_MAX_DELAY", cfg.MaxDelay)
	cfg.CheckRunwayLength = getEnvBool("AIRPORT_CHECK_RUNWAY_LENGTH", cfg.CheckRunwayLength)
	cfg.LogLevel = getEnv("AIRPORT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogDir = getEnv("AIRPORT_LOG_DIR", cfg.LogDir)
	cfg.EventLogSize = getEnvInt("AIRPORT_EVENT_LOG_SIZE", cfg.EventLogSize)

	return cfg
}

// Validate reports the first setting that cannot drive a simulation.
func (c Config) Validate() error {
	switch {
	case c.StepMinutes <= 0:
		return fmt.Errorf("step minutes must be positive, got %d", c.StepMinutes)
	case c.Cycles < 0:
		return fmt.Errorf("cycles must not be negative, got %d", c.Cycles)
	case c.BoardingLead < 0 || c.DelayLead < 0:
		return fmt.Errorf("boarding lead %s and delay lead %s must not be negative", c.BoardingLead, c.DelayLead)
	case c.DelayProbability < 0 || c.DelayProbability > 1:
		return fmt.Errorf("delay probability must be within [0, 1], got %g", c.DelayProbability)
	case c.MinDelay < 0 || c.MaxDelay < c.MinDelay:
		return fmt.Errorf("delay range [%s, %s] is invalid", c.MinDelay, c.MaxDelay)
	}
	return nil
}

// Step returns the simulated time covered by one cycle.
func (c Config) Step() time.Duration {
	return time.Duration(c.StepMinutes) * time.Minute
}

// Rules maps the lifecycle settings onto simulation rules.
func (c Config) Rules() simulation.Rules {
	return simulation.Rules{
		BoardingLead:      c.BoardingLead,
		DelayLead:         c.DelayLead,
		DelayProbability:  float32(c.DelayProbability),
		MinDelay:          c.MinDelay,
		MaxDelay:          c.MaxDelay,
		CheckRunwayLength: c.CheckRunwayLength,
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// SimulationOptions wires the settings, seeded sources and logger into
// simulation options. Passengers draw from Seed+1 so that boarding does not
// shift the delay rolls.
func (c Config) SimulationOptions(lg *log.Logger) []simulation.Option {
	return []simulation.Option{
		simulation.WithRules(c.Rules()),
		simulation.WithRandom(rand.New(c.Seed)),
		simulation.WithPassengerSource(passenger.NewGenerator(rand.New(c.Seed + 1))),
		simulation.WithLogger(lg),
		simulation.WithEventLogSize(c.EventLogSize),
	}
}
