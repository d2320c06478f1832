package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidTicks    = errors.New("ticks must be positive")
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrInvalidSpread   = errors.New("spread must not be negative")
	ErrInvalidWindow   = errors.New("momentum window must be positive")
	ErrInvalidOffset   = errors.New("momentum tick offset must not be negative")
	ErrInvalidPriority = errors.New("priority must be one of: time, price-time")
	ErrNonFinite       = errors.New("value must be a finite number")
)

type MarketMaker struct {
	Mid      float64 // Reference price both quotes are built around
	Spread   float64 // Distance of each quote from Mid
	Quantity float64 // Size of each quote
}

type Momentum struct {
	Window     int     // Number of most recent trades compared
	TickOffset float64 // Distance past the last trade the order is priced at
	Quantity   float64 // Size of each order
}

type Output struct {
	TradesCSV string // Trade tape as CSV
	Chart     string // Price and volume chart as PNG
	Database  string // SQLite trade store, disabled when empty
}

type Log struct {
	Level  string // debug, info, warn, error
	Format string // pretty or json
}

type Config struct {
	Ticks int
	// Deterministic swaps the wall clock and random ids for a stepping clock
	// and sequential ids, so two runs produce identical tapes.
	Deterministic bool
	// Priority is the order book queue ordering: "time" or "price-time".
	Priority string

	MarketMaker MarketMaker
	Momentum    Momentum
	Output      Output
	Log         Log
}

func Default() Config {
	return Config{
		Ticks:    100,
		Priority: "time",
		MarketMaker: MarketMaker{
			Mid:      100.0,
			Spread:   0.0,
			Quantity: 1.0,
		},
		Momentum: Momentum{
			Window:     5,
			TickOffset: 0.01,
			Quantity:   0.5,
		},
		Output: Output{
			TradesCSV: "data/trades.csv",
			Chart:     "plots/trades.png",
		},
		Log: Log{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// LoadFromEnv loads configuration from a .env file and environment
// variables. The default ./.env is optional, but an explicitly named envPath
// must exist.
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) (Config, error) {
	cfg := Default()

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return cfg, fmt.Errorf("load %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg.Ticks = getEnvAsInt("SIM_TICKS", cfg.Ticks)
	cfg.Deterministic = getEnvAsBool("SIM_DETERMINISTIC", cfg.Deterministic)
	cfg.Priority = getEnvAsString("BOOK_PRIORITY", cfg.Priority)

	cfg.MarketMaker.Mid = getEnvAsFloat("MM_MID_PRICE", cfg.MarketMaker.Mid)
	cfg.MarketMaker.Spread = getEnvAsFloat("MM_SPREAD", cfg.MarketMaker.Spread)
	cfg.MarketMaker.Quantity = getEnvAsFloat("MM_QUANTITY", cfg.MarketMaker.Quantity)

	cfg.Momentum.Window = getEnvAsInt("MOMENTUM_WINDOW", cfg.Momentum.Window)
	cfg.Momentum.TickOffset = getEnvAsFloat("MOMENTUM_TICK_OFFSET", cfg.Momentum.TickOffset)
	cfg.Momentum.Quantity = getEnvAsFloat("MOMENTUM_QUANTITY", cfg.Momentum.Quantity)

	cfg.Output.TradesCSV = getEnvAsString("TRADES_CSV", cfg.Output.TradesCSV)
	cfg.Output.Chart = getEnvAsString("TRADES_CHART", cfg.Output.Chart)
	cfg.Output.Database = getEnvAsString("TRADES_DB", cfg.Output.Database)

	cfg.Log.Level = getEnvAsString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvAsString("LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

// Validate checks the values a run cannot start with.
func (c Config) Validate() error {
	finite := []struct {
		name  string
		value float64
	}{
		{"market maker mid", c.MarketMaker.Mid},
		{"market maker spread", c.MarketMaker.Spread},
		{"market maker quantity", c.MarketMaker.Quantity},
		{"momentum tick offset", c.Momentum.TickOffset},
		{"momentum quantity", c.Momentum.Quantity},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s: %w: %v", f.name, ErrNonFinite, f.value)
		}
	}

	switch {
	case c.Ticks <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidTicks, c.Ticks)
	case c.MarketMaker.Quantity <= 0:
		return fmt.Errorf("market maker: %w", ErrInvalidQuantity)
	case c.MarketMaker.Spread < 0:
		return fmt.Errorf("market maker: %w", ErrInvalidSpread)
	case c.Momentum.Window <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidWindow, c.Momentum.Window)
	case c.Momentum.TickOffset < 0:
		return ErrInvalidOffset
	case c.Momentum.Quantity <= 0:
		return fmt.Errorf("momentum: %w", ErrInvalidQuantity)
	}

	if c.Priority != "time" && c.Priority != "price-time" {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, c.Priority)
	}
	return nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
		warnUnparsable(key, value, err)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
		warnUnparsable(key, value, err)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
		warnUnparsable(key, value, err)
	}
	return defaultValue
}

func warnUnparsable(key, value string, err error) {
	log.Warn().
		Str("key", key).
		Str("value", value).
		Err(err).
		Msg("ignoring unparsable environment value, using default")
}
