package pallet

// Unit identifies the measurement unit of caller supplied dimensions.
type Unit string

const (
	// Centimeters is converted to inches before any calculation.
	Centimeters Unit = "cm"
	// Inches is the canonical internal unit.
	Inches Unit = "in"
)

// Dimensions describes a box. Values held by a Result are always in inches.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// Spec is the pallet footprint and the maximum stack height, in inches.
type Spec struct {
	Length    float64
	Width     float64
	MaxHeight float64
}

// Orientation records which box dimension was laid along each pallet axis.
type Orientation struct {
	Length  float64
	Width   float64
	Rotated bool
}

// LayerResult is the outcome of the orientation search for a single layer.
type LayerResult struct {
	BoxesPerLayer int
	Orientation   Orientation
}

// Result summarises how a shipment of identical boxes is palletised.
type Result struct {
	Box             Dimensions
	Pallet          Spec
	BoxesPerLayer   int
	LayersPerPallet int
	BoxesPerPallet  int
	TotalPallets    int
	RemainingBoxes  int
	// ActualHeight is the stack height needed if every box went into as few
	// layers as possible. It ignores the per-pallet cap and may exceed
	// Pallet.MaxHeight.
	ActualHeight float64
	Orientation  Orientation
}

// FullPallets reports how many pallets are loaded to capacity.
func (r Result) FullPallets() int {
	if r.TotalPallets == 0 {
		return 0
	}
	if r.RemainingBoxes == r.BoxesPerPallet {
		return r.TotalPallets
	}
	return r.TotalPallets - 1
}

// Utilization returns the share of the pallet footprint covered by one layer.
func (r Result) Utilization() float64 {
	area := r.Pallet.Length * r.Pallet.Width
	if area <= 0 {
		return 0
	}
	return float64(r.BoxesPerLayer) * r.Orientation.Length * r.Orientation.Width / area
}
