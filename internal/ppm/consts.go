// Package ppm implements the binary-alphabet, adaptive, variable-order
// context model that predicts each successive bit given recently coded
// bytes. It is one half of the core: internal/rc turns its predictions
// into a byte stream.
package ppm

const (
	// AriPBits and AriPScale describe the fixed-point probability the
	// model hands to the range coder: a probability of bit=1 lives in
	// the open interval (0, AriPScale).
	AriPBits  = 12
	AriPScale = 1 << AriPBits

	// DivisorBits/DivisorLimit bound the divisor Divide accepts;
	// ReciprocalBits/ReciprocalLimit describe the reciprocal table.
	DivisorBits     = 10
	DivisorLimit    = 1 << DivisorBits
	ReciprocalBits  = 15
	ReciprocalLimit = 1 << ReciprocalBits

	// Counter packing: high PPM_P_BITS bits hold a fixed-point
	// probability of 1, low PPM_C_BITS bits hold a saturating
	// observation count.
	ppmPBits  = 22
	ppmCBits  = 10
	ppmPScale = 1 << ppmPBits
	ppmCLimit = 1 << ppmCBits
	ppmCScale = 32
	ppmPMask  = uint32(ppmPScale-1) << ppmCBits
	ppmCMask  = uint32(ppmCLimit - 1)

	// Initial node state: unbiased probability, ~12 prior observations.
	ppmPStart = ppmPScale / 2
	ppmCStart = ppmCScale * 12

	// Inheritance / update rates.
	ppmCInh = ppmCScale * 3 / 2
	ppmCInc = ppmCScale

	// nodeSize is the size in bytes of one Node record: four uint32
	// fields (ext0, ext1, sfx, ctr). Used to derive the arena's node
	// capacity from a memory budget expressed in MiB.
	nodeSize = 16
)
