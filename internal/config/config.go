// Copyright 2026 The Sycoca Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config is the ambient configuration layer: cobra/pflag flags
// bound through viper, XDG directory resolution, and the user-editable
// profile overlay.
package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is sycoca's full runtime configuration: flags bound into viper,
// then unmarshalled through DecodeHook into this struct.
type Config struct {
	DataDirs   []string `yaml:"data-dirs" mapstructure:"data-dirs"`
	DataHome   string   `yaml:"data-home" mapstructure:"data-home"`
	ConfigHome string   `yaml:"config-home" mapstructure:"config-home"`
	CacheHome  string   `yaml:"cache-home" mapstructure:"cache-home"`
	Language   string   `yaml:"language" mapstructure:"language"`

	Strategy         Strategy      `yaml:"strategy" mapstructure:"strategy"`
	ThrottleInterval time.Duration `yaml:"throttle-interval" mapstructure:"throttle-interval"`
	Generation       Generation    `yaml:"generation" mapstructure:"generation"`

	NoIncremental bool   `yaml:"no-incremental" mapstructure:"no-incremental"`
	MenuTest      bool   `yaml:"menu-test" mapstructure:"menu-test"`
	TrackID       string `yaml:"track-id" mapstructure:"track-id"`
	TestMode      bool   `yaml:"test-mode" mapstructure:"test-mode"`

	// Accepted for flag compatibility but not read by either CLI.
	CheckStamps  bool `yaml:"check-stamps" mapstructure:"check-stamps"`
	NoCheckFiles bool `yaml:"no-check-files" mapstructure:"no-check-files"`
	NoSignal     bool `yaml:"no-signal" mapstructure:"no-signal"`
}

// DefaultThrottleInterval is the minimum interval between unforced
// staleness checks when no throttle is configured.
const DefaultThrottleInterval = 1500 * time.Millisecond

// BindFlags registers every Config flag on flagSet and binds it into v: one
// pflag definition plus a matching viper.BindPFlag per field.
func BindFlags(flagSet *pflag.FlagSet, v *viper.Viper) error {
	flagSet.StringSlice("data-dirs", nil, "Source directories to scan, in overlay order (system first, user last).")
	flagSet.String("data-home", "", "User-writable data directory; overrides XDG_DATA_HOME.")
	flagSet.String("config-home", "", "User config directory; overrides XDG_CONFIG_HOME.")
	flagSet.String("cache-home", "", "Cache directory the binary file is written under; overrides XDG_CACHE_HOME.")
	flagSet.String("language", "", "Language tag recorded in the cache header and the cache file name.")
	flagSet.String("strategy", string(StrategyMmap), "Reader file-access strategy: mmap, shmem, or file.")
	flagSet.Duration("throttle-interval", DefaultThrottleInterval, "Minimum interval between unforced staleness checks.")
	flagSet.Int("generation", 0, "Cache-format generation embedded in the persisted file name.")
	flagSet.Bool("noincremental", false, "Force a full rebuild instead of an incremental one.")
	flagSet.Bool("menutest", false, "Resolve every entry and the menu structure without writing the cache file.")
	flagSet.String("track", "", "Log a trace line when the entry with this name or storage id is parsed.")
	flagSet.Bool("testmode", false, "Accepted; neither CLI changes its behaviour for it.")
	flagSet.Bool("checkstamps", false, "Accepted for compatibility; not read by either CLI.")
	flagSet.Bool("nocheckfiles", false, "Accepted for compatibility; not read by either CLI.")
	flagSet.Bool("nosignal", false, "Accepted for compatibility; not read by either CLI.")

	for _, flagName := range []string{
		"data-dirs", "data-home", "config-home", "cache-home", "language",
		"strategy", "throttle-interval", "generation",
	} {
		if err := v.BindPFlag(flagName, flagSet.Lookup(flagName)); err != nil {
			return err
		}
	}
	for viperName, flagName := range map[string]string{
		"no-incremental": "noincremental",
		"menu-test":      "menutest",
		"track-id":       "track",
		"test-mode":      "testmode",
		"check-stamps":   "checkstamps",
		"no-check-files": "nocheckfiles",
		"no-signal":      "nosignal",
	} {
		if err := v.BindPFlag(viperName, flagSet.Lookup(flagName)); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal decodes v's current state into a Config via DecodeHook,
// applying XDG defaults for any directory field left unset.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, err
	}
	ApplyXDGDefaults(&c)
	return &c, nil
}
