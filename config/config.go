// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// RootSettingsFile is the settings file sought in the working directory
// when --settings is not passed
const RootSettingsFile = "numtfinder.yaml"

// SearchConfig is settings for the blastn NUMT search
type SearchConfig struct {
	// blastn evalue cutoff for the NUMT search
	Evalue float64 `mapstructure:"blaste"`

	// number of assembly shards searched in parallel, 0 or 1 meaning a single search
	Forks int `mapstructure:"forks"`

	// minimum local alignment length for a hit to become a fragment
	MinFragLen int `mapstructure:"minfraglen"`
}

// MergeConfig is settings for merging NUMT fragments into blocks
type MergeConfig struct {
	// max length of the gap between fragmented local hits to merge
	FragMerge int `mapstructure:"fragmerge"`

	// whether to only merge fragments on the same strand
	Stranded bool `mapstructure:"stranded"`
}

// SelfHitConfig is settings for mtDNA self-hit detection
type SelfHitConfig struct {
	// min percentage of the mtDNA covered by one sequence's hits to call a self-hit
	MaxCov float64 `mapstructure:"mtmaxcov"`

	// min percentage identity of those hits to call a self-hit
	MaxID float64 `mapstructure:"mtmaxid"`

	// whether detected self-hit sequences are excluded automatically
	Exclude bool `mapstructure:"mtexclude"`
}

// Config is the root-level settings struct and is a mix of settings
// available in numtfinder.yaml and those available from the command line
type Config struct {
	// whether the mtDNA reference is circular
	Circle bool `mapstructure:"circle"`

	// NUMT search settings
	Search SearchConfig `mapstructure:"search"`

	// fragment to block merge settings
	Merge MergeConfig `mapstructure:"merge"`

	// self-hit filter settings
	SelfHit SelfHitConfig `mapstructure:"selfhit"`
}

// New returns a new Config struct populated by Viper settings: defaults
// first, then the optional settings file, then any bound command line flags
func New() Config {
	setDefaults()

	if settings := viper.GetString("settings"); settings != "" {
		if _, err := os.Stat(settings); err == nil {
			viper.SetConfigFile(settings)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatalf("failed to read settings file %s: %v", settings, err)
			}
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}

func setDefaults() {
	viper.SetDefault("circle", true)
	viper.SetDefault("search.blaste", 1e-4)
	viper.SetDefault("search.forks", 0)
	viper.SetDefault("search.minfraglen", 0)
	viper.SetDefault("merge.fragmerge", 8000)
	viper.SetDefault("merge.stranded", false)
	viper.SetDefault("selfhit.mtmaxcov", 99.0)
	viper.SetDefault("selfhit.mtmaxid", 99.0)
	viper.SetDefault("selfhit.mtexclude", true)
}

// Validate rejects settings that would poison a run. It is called once,
// before any input is read.
func (c Config) Validate() error {
	if c.Search.Evalue <= 0 {
		return fmt.Errorf("blaste must be positive, got %g", c.Search.Evalue)
	}
	if c.Search.Forks < 0 {
		return fmt.Errorf("forks must be >= 0, got %d", c.Search.Forks)
	}
	if c.Search.MinFragLen < 0 {
		return fmt.Errorf("minfraglen must be >= 0, got %d", c.Search.MinFragLen)
	}
	if c.Merge.FragMerge < 0 {
		return fmt.Errorf("fragmerge must be >= 0, got %d", c.Merge.FragMerge)
	}
	if c.SelfHit.MaxCov < 0 || c.SelfHit.MaxCov > 100 {
		return fmt.Errorf("mtmaxcov must be within [0,100], got %g", c.SelfHit.MaxCov)
	}
	if c.SelfHit.MaxID < 0 || c.SelfHit.MaxID > 100 {
		return fmt.Errorf("mtmaxid must be within [0,100], got %g", c.SelfHit.MaxID)
	}
	return nil
}
