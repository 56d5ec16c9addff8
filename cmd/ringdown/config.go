package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/qcm-ringdown/acquire"
	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

// fileConfig is the YAML run configuration. Durations are strings in Go
// duration syntax ("200us", "1.5ms").
type fileConfig struct {
	Mode     string `yaml:"mode"`
	RawFile  string `yaml:"raw_file"`
	MetaFile string `yaml:"meta_file"`

	SampleRateHz  float64 `yaml:"sample_rate_hz"`
	NominalFreqHz float64 `yaml:"nominal_freq_hz"`
	BurstLen      string  `yaml:"burst_len"`
	RelaxLen      string  `yaml:"relax_len"`
	TauSim        string  `yaml:"tau_sim"`

	Normalize    *bool   `yaml:"normalize"`
	GuardPeriods *int    `yaml:"guard_periods"`
	DropFrac     float64 `yaml:"drop_frac"`
	MinCrossings int     `yaml:"min_crossings"`
	ZoomWindow   string  `yaml:"zoom_window"`

	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "console" or "json"
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Mode:      string(acquire.ModeSynthetic),
		CSVPath:   "rd_results.csv",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	config := defaultFileConfig()
	if path == "" {
		return config, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return config, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

// acquireConfig builds the acquisition settings, starting from the package
// defaults so unset knobs keep their validated values.
func (c fileConfig) acquireConfig() (acquire.Config, error) {
	config := acquire.DefaultConfig()
	config.Mode = acquire.Mode(c.Mode)

	if c.RawFile != "" {
		config.RawPath = c.RawFile
	}
	if c.MetaFile != "" {
		config.MetaPath = c.MetaFile
	}
	if c.SampleRateHz > 0 {
		config.SampleRate = c.SampleRateHz
	}
	if c.NominalFreqHz > 0 {
		config.Frequency = c.NominalFreqHz
	}

	var err error
	if config.BurstLen, err = parseDuration(c.BurstLen, config.BurstLen); err != nil {
		return config, fmt.Errorf("burst_len: %w", err)
	}
	if config.RelaxLen, err = parseDuration(c.RelaxLen, config.RelaxLen); err != nil {
		return config, fmt.Errorf("relax_len: %w", err)
	}
	if config.Tau, err = parseDuration(c.TauSim, config.Tau); err != nil {
		return config, fmt.Errorf("tau_sim: %w", err)
	}

	return config, nil
}

// analysisConfig builds the pipeline settings on top of the defaults.
func (c fileConfig) analysisConfig() (ringdown.Config, error) {
	config := ringdown.DefaultConfig()

	if c.Normalize != nil {
		config.Normalize = *c.Normalize
	}
	if c.GuardPeriods != nil {
		config.GuardPeriods = *c.GuardPeriods
	}
	if c.DropFrac > 0 {
		config.DropFrac = c.DropFrac
	}
	if c.MinCrossings > 0 {
		config.MinCrossings = c.MinCrossings
	}
	if c.NominalFreqHz > 0 {
		config.NominalFreq = c.NominalFreqHz
	}

	var err error
	if config.ZoomWindow, err = parseDuration(c.ZoomWindow, config.ZoomWindow); err != nil {
		return config, fmt.Errorf("zoom_window: %w", err)
	}

	return config, nil
}
