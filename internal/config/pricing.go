package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig tunes the pricing engine's cache and presentation behavior.
// It is operator-facing (volume-mounted file), not admin-facing data.
type PricingConfig struct {
	ConfigCacheTTLSeconds   int    `mapstructure:"configCacheTTLSeconds"`
	SettingsCacheTTLSeconds int    `mapstructure:"settingsCacheTTLSeconds"`
	QuoteShopName           string `mapstructure:"quoteShopName"`
	QuoteFooter             string `mapstructure:"quoteFooter"`
	FeedMaxItems            int    `mapstructure:"feedMaxItems"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ConfigCacheTTLSeconds:   600,
		SettingsCacheTTLSeconds: 300,
		QuoteShopName:           "Druckhaus Storefront",
		QuoteFooter:             "Prices valid for 14 days from quote date.",
		FeedMaxItems:            500,
	}
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/storefront/config") // Volume-mounted config
	v.AddConfigPath("/etc/storefront")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingConfig()
	v.SetDefault("pricing.configCacheTTLSeconds", defaults.ConfigCacheTTLSeconds)
	v.SetDefault("pricing.settingsCacheTTLSeconds", defaults.SettingsCacheTTLSeconds)
	v.SetDefault("pricing.quoteShopName", defaults.QuoteShopName)
	v.SetDefault("pricing.quoteFooter", defaults.QuoteFooter)
	v.SetDefault("pricing.feedMaxItems", defaults.FeedMaxItems)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingConfigHolder wraps a fixed config with no file watching.
// Intended for tests.
func NewStaticPricingConfigHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if cfg.ConfigCacheTTLSeconds <= 0 {
		return errors.New("pricing.configCacheTTLSeconds must be positive")
	}
	if cfg.SettingsCacheTTLSeconds <= 0 {
		return errors.New("pricing.settingsCacheTTLSeconds must be positive")
	}
	if cfg.FeedMaxItems <= 0 {
		return errors.New("pricing.feedMaxItems must be positive")
	}
	return nil
}
