package driver

import "errors"

var (
	// ErrUnrecognizedDsType is returned by ParseDsType when ds_type does
	// not match a known sketch identifier, and by BuildSketch for a DsType
	// value outside the declared set.
	ErrUnrecognizedDsType = errors.New("driver: unrecognized ds_type")

	// ErrUnrecognizedTimeType is returned by ParseTimeType when time_type
	// does not match a known timing mode.
	ErrUnrecognizedTimeType = errors.New("driver: unrecognized time_type")

	// ErrInvalidConfig is returned by Config.Validate for an empty
	// file_path or an out-of-domain numeric field (error/confidence outside
	// (0, 1), sample outside (0, 1], non-positive max_size, fp_size outside
	// [1, 64]).
	ErrInvalidConfig = errors.New("driver: invalid configuration")

	// ErrNotImplemented is returned by BuildSketch for ds_type values that
	// are declared but intentionally unimplemented (FPDASH).
	ErrNotImplemented = errors.New("driver: data structure not implemented")
)
