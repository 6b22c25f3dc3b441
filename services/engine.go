package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Config carries the engine's tunables. Values come from the environment
// in production and are set directly by tests.
type Config struct {
	FeePercent     decimal.Decimal
	StaleTimeout   time.Duration
	TwoPlayerGrace time.Duration
}

func ConfigFromEnv() Config {
	cfg := Config{
		FeePercent:     decimal.NewFromInt(5),
		StaleTimeout:   10 * time.Minute,
		TwoPlayerGrace: 2 * time.Minute,
	}

	if v := os.Getenv("FEE_PERCENT"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil || fee.Sign() < 0 {
			log.Printf("⚠️  Invalid value for FEE_PERCENT: %s\n", v)
		} else {
			cfg.FeePercent = fee
		}
	}
	if v := os.Getenv("STALE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("⚠️  Invalid value for STALE_TIMEOUT: %s\n", v)
		} else {
			cfg.StaleTimeout = d
		}
	}
	if v := os.Getenv("TWO_PLAYER_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("⚠️  Invalid value for TWO_PLAYER_GRACE: %s\n", v)
		} else {
			cfg.TwoPlayerGrace = d
		}
	}

	return cfg
}

// Engine owns the match lifecycle: seat allocation, escrow, resolution,
// settlement and timeout cleanup. All balance and match state lives in the
// database; the engine serializes access per match and per user through
// its lock table.
type Engine struct {
	DB     *gorm.DB
	Events *Dispatcher
	Config Config

	locks *lockTable
}

func NewEngine(db *gorm.DB, cfg Config) *Engine {
	return &Engine{
		DB:     db,
		Events: NewDispatcher(),
		Config: cfg,
		locks:  newLockTable(),
	}
}

func matchKey(id uint) string {
	return "match:" + strconv.FormatUint(uint64(id), 10)
}

func userKey(code string) string {
	return "user:" + code
}
