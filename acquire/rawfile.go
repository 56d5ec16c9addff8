package acquire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

// Captures are flat little-endian int16 sample streams.
const bytesPerSample = 2

// newFormatMeta is the current acquisition metadata layout.
type newFormatMeta struct {
	SampleRateHz          float64 `json:"sample_rate_hz"`
	CaptureStartOffsetRel int64   `json:"capture_start_offset_rel"`
	CaptureBytes          int64   `json:"capture_bytes"`
}

// legacyMeta is the older layout. SampleRateHz may be absent, in which case
// the configured rate applies.
type legacyMeta struct {
	WriterOffsetBytes *int64   `json:"writer_offset_bytes"`
	CaptureBytes      *int64   `json:"capture_bytes"`
	SampleRateHz      *float64 `json:"sample_rate_hz"`
}

// loadNewFormat reads a capture with the current metadata layout. Both
// files are required.
func loadNewFormat(rawPath, metaPath string) (ringdown.Segment, error) {
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return ringdown.Segment{}, fmt.Errorf("acquire: missing metadata: %w", err)
	}

	var meta newFormatMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return ringdown.Segment{}, fmt.Errorf("acquire: parsing metadata %s: %w", metaPath, err)
	}
	if meta.SampleRateHz <= 0 {
		return ringdown.Segment{}, fmt.Errorf("acquire: metadata %s: sample rate must be positive, got %g", metaPath, meta.SampleRateHz)
	}

	samples, err := readInt16Raw(rawPath)
	if err != nil {
		return ringdown.Segment{}, err
	}

	sliced, err := sliceByBytes(samples, meta.CaptureStartOffsetRel, meta.CaptureBytes, rawPath)
	if err != nil {
		return ringdown.Segment{}, err
	}

	return ringdown.Segment{SampleRate: meta.SampleRateHz, Samples: sliced}, nil
}

// loadLegacy reads an older capture. When metadata with the legacy keys
// exists the capture is sliced accordingly; otherwise the whole raw file is
// the segment and the fallback rate applies.
func loadLegacy(rawPath, metaPath string, fallbackRate float64) (ringdown.Segment, error) {
	samples, err := readInt16Raw(rawPath)
	if err != nil {
		return ringdown.Segment{}, err
	}

	if metaBytes, err := os.ReadFile(metaPath); err == nil {
		var meta legacyMeta
		if err := json.Unmarshal(metaBytes, &meta); err != nil {
			return ringdown.Segment{}, fmt.Errorf("acquire: parsing metadata %s: %w", metaPath, err)
		}

		if meta.WriterOffsetBytes != nil && meta.CaptureBytes != nil {
			rate := fallbackRate
			if meta.SampleRateHz != nil {
				rate = *meta.SampleRateHz
			}

			sliced, err := sliceByBytes(samples, *meta.WriterOffsetBytes, *meta.CaptureBytes, rawPath)
			if err != nil {
				return ringdown.Segment{}, err
			}
			return ringdown.Segment{SampleRate: rate, Samples: sliced}, nil
		}
		// Metadata present but without the legacy keys: fall through to
		// the full raw file.
	}

	return ringdown.Segment{SampleRate: fallbackRate, Samples: samples}, nil
}

// readInt16Raw decodes a little-endian int16 capture file into float64
// samples.
func readInt16Raw(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("acquire: missing raw file: %w", err)
	}
	if len(raw)%bytesPerSample != 0 {
		return nil, fmt.Errorf("acquire: raw file %s has odd length %d", path, len(raw))
	}

	samples := make([]float64, len(raw)/bytesPerSample)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:])))
	}
	return samples, nil
}

// sliceByBytes converts byte-addressed capture bounds into a sample slice.
func sliceByBytes(samples []float64, startBytes, lengthBytes int64, path string) ([]float64, error) {
	start := int(startBytes / bytesPerSample)
	count := int(lengthBytes / bytesPerSample)
	end := start + count

	if start < 0 || count < 0 || end > len(samples) {
		return nil, fmt.Errorf("acquire: capture bounds [%d:%d] exceed raw file %s (%d samples)",
			start, end, path, len(samples))
	}
	return samples[start:end], nil
}
