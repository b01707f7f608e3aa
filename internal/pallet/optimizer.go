package pallet

import (
	"fmt"
	"math"
)

// Standard returns the 48x40 in pallet with a 90 in stacking limit.
func Standard() Spec {
	return Spec{Length: 48, Width: 40, MaxHeight: 90}
}

// Validate reports whether every axis of the pallet is positive.
func (s Spec) Validate() error {
	if !positive(s.Length) || !positive(s.Width) || !positive(s.MaxHeight) {
		return ErrInvalidPalletSpec
	}
	return nil
}

// Optimizer computes pallet loads for a single pallet spec. It holds no
// mutable state and is safe for concurrent use.
type Optimizer struct {
	spec Spec
}

// New creates an Optimizer for spec.
func New(spec Spec) (*Optimizer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{spec: spec}, nil
}

// Spec returns the pallet the optimizer was built for.
func (o *Optimizer) Spec() Spec {
	return o.spec
}

// ChooseOrientation finds how many boxes fit in one layer of spec. The
// unrotated footprint is tried first and is only replaced by the rotated one
// on a strict improvement.
func ChooseOrientation(spec Spec, boxLength, boxWidth float64) LayerResult {
	candidates := [2]Orientation{
		{Length: boxLength, Width: boxWidth},
		{Length: boxWidth, Width: boxLength, Rotated: true},
	}

	best := LayerResult{Orientation: candidates[0]}
	for _, candidate := range candidates {
		count := fitAlong(spec.Length, candidate.Length) * fitAlong(spec.Width, candidate.Width)
		if count > best.BoxesPerLayer {
			best = LayerResult{BoxesPerLayer: count, Orientation: candidate}
		}
	}
	return best
}

// Optimize palletises totalBoxes boxes of the given size, expressed in unit.
func (o *Optimizer) Optimize(box Dimensions, totalBoxes int, unit Unit) (Result, error) {
	in := Dimensions{
		Length: ConvertToInches(box.Length, unit),
		Width:  ConvertToInches(box.Width, unit),
		Height: ConvertToInches(box.Height, unit),
	}

	if !positive(in.Length) || !positive(in.Width) || !positive(in.Height) {
		return Result{}, ErrInvalidDimension
	}
	if totalBoxes < 1 {
		return Result{}, ErrInvalidQuantity
	}

	// Deliberately checks the unrotated footprint: a box that only fits once
	// rotated is still rejected here.
	if in.Length > o.spec.Length || in.Width > o.spec.Width {
		return Result{}, fmt.Errorf("%w: box %.2fx%.2f in, pallet %.2fx%.2f in",
			ErrBoxExceedsPallet, in.Length, in.Width, o.spec.Length, o.spec.Width)
	}

	footprint := math.Max(o.spec.Length, o.spec.Width)
	if tooSmall(footprint, in.Length) || tooSmall(footprint, in.Width) || tooSmall(o.spec.MaxHeight, in.Height) {
		return Result{}, fmt.Errorf("%w: box %gx%gx%g in is too small to count on the pallet",
			ErrInvalidDimension, in.Length, in.Width, in.Height)
	}

	layer := ChooseOrientation(o.spec, in.Length, in.Width)
	if layer.BoxesPerLayer == 0 {
		return Result{}, ErrNoFit
	}

	layersPerPallet := fitAlong(o.spec.MaxHeight, in.Height)
	if layersPerPallet == 0 {
		return Result{}, fmt.Errorf("%w: box height %.2f in exceeds the pallet max height of %.2f in",
			ErrNoFit, in.Height, o.spec.MaxHeight)
	}

	boxesPerPallet := layer.BoxesPerLayer * layersPerPallet

	remaining := totalBoxes % boxesPerPallet
	if remaining == 0 {
		remaining = boxesPerPallet
	}

	return Result{
		Box:             in,
		Pallet:          o.spec,
		BoxesPerLayer:   layer.BoxesPerLayer,
		LayersPerPallet: layersPerPallet,
		BoxesPerPallet:  boxesPerPallet,
		TotalPallets:    ceilDiv(totalBoxes, boxesPerPallet),
		RemainingBoxes:  remaining,
		ActualHeight:    float64(ceilDiv(totalBoxes, layer.BoxesPerLayer)) * in.Height,
		Orientation:     layer.Orientation,
	}, nil
}

// maxAxisCount bounds the number of boxes counted along one pallet axis.
// Three axes multiplied together stay below 1<<60.
const maxAxisCount = 1 << 20

// fitAlong returns how many whole items of size fit into span, saturating at
// maxAxisCount.
func fitAlong(span, size float64) int {
	if !positive(size) {
		return 0
	}
	n := math.Floor(span / size)
	if !(n < maxAxisCount) {
		return maxAxisCount
	}
	return int(n)
}

func tooSmall(span, size float64) bool {
	return !(span/size < maxAxisCount)
}

// ceilDiv divides rounding up without overflowing near math.MaxInt.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// positive rejects NaN and infinities along with values <= 0.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
