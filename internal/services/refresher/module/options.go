package module

import (
	"time"

	"mgnrega/internal/platform/config"
)

// Options controls the refresher. Values are read from env
type Options struct {
	Enabled   bool
	States    []string
	Interval  time.Duration
	RetryBase time.Duration
	MaxDelay  time.Duration
}

// FromConfig reads options using the MGNREGA_REFRESH_ prefix; states default to MGNREGA_STATE
func FromConfig(root config.Conf) Options {
	mg := root.Prefix("MGNREGA_")
	rf := mg.Prefix("REFRESH_")
	return Options{
		Enabled:   rf.MayBool("ENABLED", false),
		States:    rf.MayCSV("STATES", []string{mg.MayString("STATE", "MAHARASHTRA")}),
		Interval:  rf.MayDuration("INTERVAL", 15*time.Minute),
		RetryBase: rf.MayDuration("RETRY_BASE", 30*time.Second),
		MaxDelay:  rf.MayDuration("MAX_DELAY", time.Hour),
	}
}
