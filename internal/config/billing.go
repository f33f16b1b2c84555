package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig holds operator-tunable billing behavior. It is loaded from
// billing.yml and hot-reloaded so rate tolerance changes do not need a restart.
type BillingConfig struct {
	// RateTolerance is the maximum absolute difference between a contract
	// rate and an effective rate that still counts as a match.
	RateTolerance float64 `mapstructure:"rateTolerance"`
	// DefaultPlanName is the plan assigned to companies created without one.
	DefaultPlanName string `mapstructure:"defaultPlanName"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		RateTolerance:   0.01,
		DefaultPlanName: "Standard",
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/ledger/config")
	v.AddConfigPath("/etc/ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.rateTolerance", defaults.RateTolerance)
	v.SetDefault("billing.defaultPlanName", defaults.DefaultPlanName)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Current returns the active billing config snapshot.
func (h *BillingConfigHolder) Current() BillingConfig {
	if h == nil {
		return DefaultBillingConfig()
	}
	if cfg, ok := h.current.Load().(BillingConfig); ok {
		return cfg
	}
	return DefaultBillingConfig()
}

// Store replaces the active config. Used by tests.
func (h *BillingConfigHolder) Store(cfg BillingConfig) {
	h.current.Store(cfg)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.RateTolerance < 0 {
		return errors.New("billing.rateTolerance must not be negative")
	}
	return nil
}
