package driver

import (
	"fmt"

	"github.com/morestreaming/sketches/pkg/capability"
	"github.com/morestreaming/sketches/pkg/cuckoo"
	"github.com/morestreaming/sketches/pkg/facs"
	"github.com/morestreaming/sketches/pkg/nitrocms"
	"github.com/morestreaming/sketches/pkg/nitrocuckoo"
	"github.com/morestreaming/sketches/pkg/nitrohash"
	"github.com/morestreaming/sketches/pkg/spacesaving"
)

// BuildSketch dispatches cfg.DsType to a concrete capability.Sketch sized
// from cfg's error/confidence/sample/rap/compact parameters. ds_type=HASH
// is served by an unsampled NitroHash (p=1), which differs from a plain
// hash map only by unused sampling machinery.
//
// The Cuckoo family is sized from flowCount, the number of records the
// input file actually ingested, not from cfg.MaxSize: the upstream
// reference builds these filters with with_capacity(processed.len()),
// since a cuckoo filter's space/false-positive tradeoff is meant to track
// the real working set rather than a fixed guess.
func BuildSketch(cfg Config, flowCount int) (capability.Sketch, error) {
	switch cfg.DsType {
	case DsHash:
		return nitrohash.New(1, cfg.Seed), nil
	case DsCMS:
		return nitrocms.New(cfg.Error, cfg.Confidence), nil
	case DsNitroCMS:
		p := cfg.Sample
		if cfg.AvoidMI {
			p = 1
		}
		return nitrocms.NewSampled(cfg.Error, cfg.Confidence, p, cfg.Seed), nil
	case DsFPDASH:
		return nil, fmt.Errorf("%w: FPDASH", ErrNotImplemented)
	case DsSpaceSaving:
		return spacesaving.New(cfg.Error, cfg.RAP, cfg.Seed), nil
	case DsNitroHash:
		return nitrohash.New(cfg.Sample, cfg.Seed), nil
	case DsCuckoo:
		return cuckoo.NewWithCapacity(flowCount, cfg.Seed), nil
	case DsNitroCuckoo:
		return nitrocuckoo.NewCompact(flowCount, cfg.Sample, cfg.Seed, cfg.Compact), nil
	case DsFACS:
		return facs.New(cfg.MaxSize), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedDsType, cfg.DsType)
	}
}
