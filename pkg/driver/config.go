package driver

import (
	"fmt"

	"github.com/morestreaming/sketches/pkg/metrics"
)

// Collector is re-exported from pkg/metrics so callers configuring a
// driver.Config never need to import pkg/metrics directly.
type Collector = metrics.Collector

// DsType selects which frequency sketch a Config run dispatches to.
type DsType int

const (
	DsHash DsType = iota
	DsCMS
	DsNitroCMS
	DsFPDASH
	DsSpaceSaving
	DsNitroHash
	DsCuckoo
	DsNitroCuckoo
	DsFACS
)

// String renders the canonical upstream spelling of d, used in error
// messages and report labels.
func (d DsType) String() string {
	switch d {
	case DsHash:
		return "HASH"
	case DsCMS:
		return "CMS"
	case DsNitroCMS:
		return "NitroCMS"
	case DsFPDASH:
		return "FPDASH"
	case DsSpaceSaving:
		return "SpaceSaving"
	case DsNitroHash:
		return "NitroHash"
	case DsCuckoo:
		return "Cuckoo"
	case DsNitroCuckoo:
		return "NitroCuckoo"
	case DsFACS:
		return "FACS"
	default:
		return "unknown"
	}
}

// ParseDsType maps an upstream configuration string to a DsType.
func ParseDsType(s string) (DsType, error) {
	switch s {
	case "HASH":
		return DsHash, nil
	case "CMS":
		return DsCMS, nil
	case "NitroCMS":
		return DsNitroCMS, nil
	case "FPDASH":
		return DsFPDASH, nil
	case "SpaceSaving":
		return DsSpaceSaving, nil
	case "NitroHash":
		return DsNitroHash, nil
	case "Cuckoo":
		return DsCuckoo, nil
	case "NitroCuckoo":
		return DsNitroCuckoo, nil
	case "FACS":
		return DsFACS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedDsType, s)
	}
}

// TimeType selects the driver's timing-mode loop shape.
type TimeType int

const (
	// WriteTime times inserts only.
	WriteTime TimeType = iota
	// ReadTime performs all inserts untimed, then times one query per
	// arrival.
	ReadTime
	// RWTime times an insert immediately followed by a query, per
	// arrival.
	RWTime
)

func (t TimeType) String() string {
	switch t {
	case WriteTime:
		return "WRITETIME"
	case ReadTime:
		return "READTIME"
	case RWTime:
		return "RWTIME"
	default:
		return "unknown"
	}
}

// ParseTimeType maps an upstream configuration string to a TimeType.
func ParseTimeType(s string) (TimeType, error) {
	switch s {
	case "WRITETIME":
		return WriteTime, nil
	case "READTIME":
		return ReadTime, nil
	case "RWTIME":
		return RWTime, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedTimeType, s)
	}
}

// Config is the complete set of parameters a benchmark run needs. It is a
// plain struct rather than a builder: every field is independently
// meaningful and the upstream configuration record it mirrors is already
// flat.
type Config struct {
	FilePath string
	DsType   DsType
	TimeType TimeType

	Error      float64
	Confidence float64
	MaxSize    int
	FpSize     int
	Sample     float64

	AvoidMI bool
	RAP     bool
	Compare bool
	Compact bool
	Verbose bool

	// Seed makes every sketch's internal RNG reproducible. Zero means
	// "seed from a fixed, documented source" rather than from entropy,
	// so a default Config is itself deterministic.
	Seed int64

	// MetricsCollector records operation counts for the run. A nil
	// value is replaced with a no-op collector by Run.
	MetricsCollector Collector
}

// DefaultConfig returns a Config with every optional field at its
// documented default.
func DefaultConfig(filePath string, dsType DsType) Config {
	return Config{
		FilePath:   filePath,
		DsType:     dsType,
		TimeType:   WriteTime,
		Error:      0.01,
		Confidence: 0.01,
		MaxSize:    10000,
		FpSize:     8,
		Sample:     0.01,
	}
}

// Validate checks every numeric field's domain and returns a wrapped
// ErrInvalidConfig describing the first violation found.
func (c Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("%w: file_path must not be empty", ErrInvalidConfig)
	}
	if c.Error <= 0 || c.Error >= 1 {
		return fmt.Errorf("%w: error must be in (0, 1), got %v", ErrInvalidConfig, c.Error)
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("%w: confidence must be in (0, 1), got %v", ErrInvalidConfig, c.Confidence)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: max_size must be positive, got %d", ErrInvalidConfig, c.MaxSize)
	}
	if c.FpSize < 1 || c.FpSize > 64 {
		return fmt.Errorf("%w: fp_size must be in [1, 64], got %d", ErrInvalidConfig, c.FpSize)
	}
	if c.Sample <= 0 || c.Sample > 1 {
		return fmt.Errorf("%w: sample must be in (0, 1], got %v", ErrInvalidConfig, c.Sample)
	}
	return nil
}
