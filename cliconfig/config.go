// Package cliconfig resolves brain.Config from three layers — built-in
// defaults, an optional TOML file, and environment variables — with CLI
// flags applied on top by cmd/brain, matching the teacher pack's
// documented precedence (CLI > env > file > default, grounded on
// HD220-crownet's TOML-backed service config and qubicDB's layered
// override pattern in pkg/core/config.go).
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/SynapticNetworks/plasticity-core/brain"
)

// FileConfig mirrors the TOML file shape. Every field is a pointer so a
// field absent from the file is distinguishable from an explicit zero
// value, letting env vars and defaults fill the gap.
type FileConfig struct {
	Seed             *int64   `toml:"seed"`
	ActivationMin    *float32 `toml:"activation_min"`
	ActivationMax    *float32 `toml:"activation_max"`
	WeightMin        *float32 `toml:"weight_min"`
	WeightMax        *float32 `toml:"weight_max"`
	SpikeBusCapacity *int     `toml:"spike_bus_capacity"`
	StepIntervalMS   *int64   `toml:"step_interval_ms"`

	DBPath           *string `toml:"db_path"`
	ChannelCapacity  *int    `toml:"channel_capacity"`
	MemDBIntervalMS  *int    `toml:"memdb_interval_ms"`
	RewardIntervalMS *int    `toml:"reward_interval_ms"`

	EtaHebbian           *float64 `toml:"eta_hebbian"`
	Workers              *int     `toml:"workers"`
	ConsolidationIntervalMS *int64 `toml:"consolidation_interval_ms"`
}

// LoadFile reads and parses a TOML config file. An empty path is not an
// error — it returns a zero-valued FileConfig so env/defaults apply.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("cliconfig: decode %s: %w", path, err)
	}
	return fc, nil
}

// envOverlay applies BRAIN_-prefixed environment variables over fc,
// following cobra/pflag convention of one env var per flag name.
func envOverlay(fc FileConfig) FileConfig {
	if v, ok := os.LookupEnv("BRAIN_SEED"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			fc.Seed = &n
		}
	}
	if v, ok := os.LookupEnv("BRAIN_DB_PATH"); ok {
		fc.DBPath = &v
	}
	if v, ok := os.LookupEnv("BRAIN_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			fc.Workers = &n
		}
	}
	if v, ok := os.LookupEnv("BRAIN_ETA_HEBBIAN"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			fc.EtaHebbian = &f
		}
	}
	return fc
}

// Resolve builds a brain.Config from defaults, a TOML file, and the
// environment, in that precedence order (lowest to highest). cmd/brain
// applies explicit CLI flags on top of the result.
func Resolve(filePath string) (brain.Config, error) {
	cfg := brain.DefaultConfig()

	fc, err := LoadFile(filePath)
	if err != nil {
		return brain.Config{}, err
	}
	fc = envOverlay(fc)

	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.ActivationMin != nil {
		cfg.ActivationMin = *fc.ActivationMin
	}
	if fc.ActivationMax != nil {
		cfg.ActivationMax = *fc.ActivationMax
	}
	if fc.WeightMin != nil {
		cfg.WeightMin = *fc.WeightMin
	}
	if fc.WeightMax != nil {
		cfg.WeightMax = *fc.WeightMax
	}
	if fc.SpikeBusCapacity != nil {
		cfg.SpikeBusCapacity = *fc.SpikeBusCapacity
	}
	if fc.StepIntervalMS != nil {
		cfg.StepInterval = time.Duration(*fc.StepIntervalMS) * time.Millisecond
	}
	if fc.DBPath != nil {
		cfg.Telemetry.DBPath = *fc.DBPath
	}
	if fc.ChannelCapacity != nil {
		cfg.Telemetry.ChannelCapacity = *fc.ChannelCapacity
	}
	if fc.MemDBIntervalMS != nil {
		cfg.Telemetry.MemDBIntervalMS = *fc.MemDBIntervalMS
	}
	if fc.RewardIntervalMS != nil {
		cfg.Telemetry.RewardIntervalMS = *fc.RewardIntervalMS
	}
	if fc.EtaHebbian != nil {
		cfg.Learning.EtaHebbian = *fc.EtaHebbian
	}
	if fc.Workers != nil {
		cfg.Learning.Workers = *fc.Workers
	}
	if fc.ConsolidationIntervalMS != nil {
		cfg.Learning.ConsolidationInterval = time.Duration(*fc.ConsolidationIntervalMS) * time.Millisecond
	}

	return cfg, nil
}
