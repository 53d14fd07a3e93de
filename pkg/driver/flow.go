// Package driver implements the benchmark harness: it parses a stream of
// flow records, selects one frequency sketch via Config, and runs either a
// timing loop or an accuracy loop against it.
package driver

import "fmt"

// FlowID is the canonical key type the harness counts occurrences of: a
// pair of IPv4 addresses, stored as raw octets to stay a plain comparable
// value usable as a Go map key.
type FlowID struct {
	Src [4]byte
	Dst [4]byte
}

// Bytes returns the 8-byte wire encoding of the flow, which is what every
// sketch hashes. It is computed fresh each call rather than cached, since
// FlowID is meant to be passed by value.
func (f FlowID) Bytes() []byte {
	b := make([]byte, 8)
	copy(b[0:4], f.Src[:])
	copy(b[4:8], f.Dst[:])
	return b
}

// String renders the flow as "src->dst" in dotted-quad form, for
// diagnostics only.
func (f FlowID) String() string {
	return fmt.Sprintf("%d.%d.%d.%d->%d.%d.%d.%d",
		f.Src[0], f.Src[1], f.Src[2], f.Src[3],
		f.Dst[0], f.Dst[1], f.Dst[2], f.Dst[3])
}
