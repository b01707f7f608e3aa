package pallet

import "errors"

var (
	// ErrInvalidDimension is returned when a box dimension is not positive after unit conversion.
	ErrInvalidDimension = errors.New("box dimensions must be greater than 0")
	// ErrInvalidQuantity is returned when fewer than one box is requested.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrBoxExceedsPallet is returned when the unrotated box footprint is larger than the pallet.
	ErrBoxExceedsPallet = errors.New("box dimensions exceed the pallet size")
	// ErrNoFit is returned when not a single layer or box fits on the pallet.
	ErrNoFit = errors.New("boxes do not fit on the pallet")
	// ErrInvalidUnit is returned by ParseUnit for unsupported unit tags.
	ErrInvalidUnit = errors.New("unit must be one of: cm, in")
	// ErrInvalidPalletSpec is returned when a pallet has a non-positive axis.
	ErrInvalidPalletSpec = errors.New("pallet length, width and max height must be greater than 0")
)

// Error kinds reported to callers alongside the message.
const (
	KindInvalidDimension = "InvalidDimension"
	KindInvalidQuantity  = "InvalidQuantity"
	KindBoxExceedsPallet = "BoxExceedsPallet"
	KindNoFit            = "NoFit"
	KindInvalidUnit      = "InvalidUnit"
	KindInvalidPallet    = "InvalidPalletSpec"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidDimension, KindInvalidDimension},
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrBoxExceedsPallet, KindBoxExceedsPallet},
	{ErrNoFit, KindNoFit},
	{ErrInvalidUnit, KindInvalidUnit},
	{ErrInvalidPalletSpec, KindInvalidPallet},
}

// KindOf maps an error returned by this package to its kind. The boolean is
// false for errors that did not originate here.
func KindOf(err error) (string, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind, true
		}
	}
	return "", false
}
