package acquire

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeRaw(t *testing.T, dir string, samples []int16) string {
	t.Helper()
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	path := filepath.Join(dir, "ringdown_data.raw")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeMeta(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ringdown_data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSynthesizeDefaults(t *testing.T) {
	config := DefaultConfig()
	seg := Synthesize(config)

	wantN := int(config.RelaxLen.Seconds() * config.SampleRate)
	if len(seg.Samples) != wantN {
		t.Fatalf("relax samples = %d, want %d", len(seg.Samples), wantN)
	}
	if seg.SampleRate != config.SampleRate {
		t.Errorf("rate = %g, want %g", seg.SampleRate, config.SampleRate)
	}

	// The decay starts at full amplitude and falls by exp(-relax/τ).
	peakEarly := 0.0
	for _, v := range seg.Samples[:100] {
		if a := math.Abs(v); a > peakEarly {
			peakEarly = a
		}
	}
	peakLate := 0.0
	for _, v := range seg.Samples[len(seg.Samples)-100:] {
		if a := math.Abs(v); a > peakLate {
			peakLate = a
		}
	}
	if peakEarly < 0.9 {
		t.Errorf("early peak = %g, want near amplitude 1", peakEarly)
	}
	if peakLate > 0.1 {
		t.Errorf("late peak = %g, want decayed well under early peak", peakLate)
	}
}

func TestLoadNewFormat(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeRaw(t, dir, []int16{10, 20, 30, 40, 50, 60, 70, 80})
	metaPath := writeMeta(t, dir,
		`{"sample_rate_hz": 125e6, "capture_start_offset_rel": 4, "capture_bytes": 8}`)

	seg, err := Load(Config{Mode: ModeNewFormatFile, RawPath: rawPath, MetaPath: metaPath})
	if err != nil {
		t.Fatal(err)
	}

	if seg.SampleRate != 125e6 {
		t.Errorf("rate = %g, want 125e6", seg.SampleRate)
	}
	want := []float64{30, 40, 50, 60}
	if len(seg.Samples) != len(want) {
		t.Fatalf("samples = %v, want %v", seg.Samples, want)
	}
	for i := range want {
		if seg.Samples[i] != want[i] {
			t.Fatalf("samples = %v, want %v", seg.Samples, want)
		}
	}
}

func TestLoadNewFormatMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(Config{
		Mode:     ModeNewFormatFile,
		RawPath:  filepath.Join(dir, "missing.raw"),
		MetaPath: filepath.Join(dir, "missing.json"),
	})
	if err == nil {
		t.Fatal("expected an error for missing files")
	}
}

func TestLoadNewFormatBadBounds(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeRaw(t, dir, []int16{1, 2, 3, 4})
	metaPath := writeMeta(t, dir,
		`{"sample_rate_hz": 125e6, "capture_start_offset_rel": 4, "capture_bytes": 64}`)

	if _, err := Load(Config{Mode: ModeNewFormatFile, RawPath: rawPath, MetaPath: metaPath}); err == nil {
		t.Fatal("expected an error for capture bounds past the file end")
	}
}

func TestLoadLegacyWithMetadata(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeRaw(t, dir, []int16{-5, 1, 2, 3, 4, 5})
	metaPath := writeMeta(t, dir,
		`{"writer_offset_bytes": 2, "capture_bytes": 6, "sample_rate_hz": 100e6}`)

	seg, err := Load(Config{
		Mode:       ModeLegacyFile,
		RawPath:    rawPath,
		MetaPath:   metaPath,
		SampleRate: 125e6,
	})
	if err != nil {
		t.Fatal(err)
	}

	if seg.SampleRate != 100e6 {
		t.Errorf("rate = %g, want metadata rate 100e6", seg.SampleRate)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if seg.Samples[i] != want[i] {
			t.Fatalf("samples = %v, want %v", seg.Samples, want)
		}
	}
}

func TestLoadLegacyRawOnlyFallback(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeRaw(t, dir, []int16{1, 2, 3})

	seg, err := Load(Config{
		Mode:       ModeLegacyFile,
		RawPath:    rawPath,
		MetaPath:   filepath.Join(dir, "absent.json"),
		SampleRate: 125e6,
	})
	if err != nil {
		t.Fatal(err)
	}

	if seg.SampleRate != 125e6 {
		t.Errorf("rate = %g, want fallback 125e6", seg.SampleRate)
	}
	if len(seg.Samples) != 3 {
		t.Errorf("samples = %d, want the full raw file", len(seg.Samples))
	}
}

func TestLoadLegacyForeignMetadataFallsBack(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeRaw(t, dir, []int16{1, 2, 3, 4})
	metaPath := writeMeta(t, dir, `{"some_other_key": true}`)

	seg, err := Load(Config{
		Mode:       ModeLegacyFile,
		RawPath:    rawPath,
		MetaPath:   metaPath,
		SampleRate: 125e6,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seg.Samples) != 4 {
		t.Errorf("samples = %d, want the full raw file", len(seg.Samples))
	}
}

func TestLoadUnknownMode(t *testing.T) {
	if _, err := Load(Config{Mode: Mode("bogus")}); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestSyntheticSegmentFeedsPipeline(t *testing.T) {
	config := DefaultConfig()
	config.RelaxLen = 100 * time.Microsecond

	seg := Synthesize(config)
	if err := seg.Validate(); err != nil {
		t.Fatalf("synthetic segment invalid: %v", err)
	}
}
