// Command ringdown runs the ring-down analysis pipeline over one capture
// (or a synthetic validation waveform), prints the measured physics, and
// appends the run record to the results store.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/RyanBlaney/qcm-ringdown/acquire"
	"github.com/RyanBlaney/qcm-ringdown/logging"
	"github.com/RyanBlaney/qcm-ringdown/ringdown"
	"github.com/RyanBlaney/qcm-ringdown/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ringdown: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML run configuration")
	mode := flag.String("mode", "", "acquisition mode: synthetic, new-file or legacy-file")
	csvPath := flag.String("csv", "", "results CSV path (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	tail := flag.Int("tail", 3, "recent runs to list in the summary")
	flag.Parse()

	config, err := loadFileConfig(*configPath)
	if err != nil {
		return err
	}
	if *mode != "" {
		config.Mode = *mode
	}
	if *csvPath != "" {
		config.CSVPath = *csvPath
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}

	logger, err := buildLogger(config)
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)

	acqConfig, err := config.acquireConfig()
	if err != nil {
		return err
	}
	if !acqConfig.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", config.Mode)
	}

	segment, err := acquire.Load(acqConfig)
	if err != nil {
		return err
	}
	logger.Info("segment loaded", logging.Fields{
		"mode":     string(acqConfig.Mode),
		"samples":  humanize.Comma(int64(len(segment.Samples))),
		"rate_hz":  segment.SampleRate,
		"duration": segment.Duration().String(),
	})

	analysisConfig, err := config.analysisConfig()
	if err != nil {
		return err
	}

	pipeline, err := ringdown.NewPipeline(analysisConfig)
	if err != nil {
		return err
	}

	result, err := pipeline.Analyze(segment)
	if err != nil {
		return err
	}

	for _, d := range result.Report {
		logger.Warn(d.Warning, logging.Fields{"stage": d.Stage, "fix": d.Fix})
	}

	printSummary(result)

	record, err := result.Record(time.Now(), map[string]string{
		"mode":          string(acqConfig.Mode),
		"fs_hz":         strconv.FormatFloat(segment.SampleRate, 'g', -1, 64),
		"f0_guess_hz":   strconv.FormatFloat(analysisConfig.NominalFreq, 'g', -1, 64),
		"relax_samples": strconv.Itoa(len(segment.Samples)),
		"fit_window":    fmt.Sprintf("(%d,%d)", result.Decay.Window.I0, result.Decay.Window.I1),
	})
	if err != nil {
		logger.Warn("skipping persistence", logging.Fields{"reason": err.Error()})
		return nil
	}

	if err := store.NewCSVAppender(config.CSVPath).Append(record); err != nil {
		return err
	}
	logger.Info("record appended", logging.Fields{"csv": config.CSVPath})

	if config.SQLitePath != "" {
		db, err := store.NewSQLiteStore(config.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Append(record); err != nil {
			return err
		}
	}

	return printCrossRunSummary(config.CSVPath, *tail)
}

func buildLogger(config fileConfig) (logging.Logger, error) {
	var logger logging.Logger
	if config.LogFormat == "json" {
		zl, err := logging.NewZapLogger()
		if err != nil {
			return nil, err
		}
		logger = zl
	} else {
		logger = logging.NewDefaultLogger()
	}

	logger.SetLevel(logging.ParseLevel(config.LogLevel))
	return logger, nil
}

func printSummary(result *ringdown.Result) {
	fmt.Println("--------------------------------------------------------------")
	fmt.Printf("f0      = %.6f MHz (%d cycles)\n", result.Frequency.F0/1e6, result.Frequency.CyclesUsed)
	fmt.Printf("tau     = %.2f us\n", result.Decay.Tau*1e6)
	fmt.Printf("Q       = %.1f\n", result.Q)
	fmt.Printf("RMSE    = %.3e\n", result.Decay.RMSE)
	fmt.Printf("alpha   = %.3f (damping factor 1/tau)\n", result.Damping.Alpha)
	fmt.Printf("df_tau  = %.3f Hz (linewidth from tau)\n", result.Damping.LinewidthTau)
	fmt.Printf("df_Q    = %.3f Hz (linewidth from Q)\n", result.Damping.LinewidthQ)
	fmt.Println("--------------------------------------------------------------")
}

func printCrossRunSummary(csvPath string, tail int) error {
	summary, err := store.Summarize(csvPath, tail)
	if err != nil {
		return err
	}

	fmt.Printf("=== run history (%s) ===\n", csvPath)
	for _, col := range summary.Columns {
		fmt.Printf("%-8s n=%d | min=%.6g mean=%.6g max=%.6g\n",
			col.Name, col.Count, col.Min, col.Mean, col.Max)
	}
	if len(summary.Tail) > 0 {
		fmt.Printf("last %d run(s):\n", len(summary.Tail))
		for _, row := range summary.Tail {
			fmt.Printf("  - %s | f0_hz=%s tau_s=%s q=%s\n",
				row["timestamp"], row["f0_hz"], row["tau_s"], row["q"])
		}
	}
	return nil
}
