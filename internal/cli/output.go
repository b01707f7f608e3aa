package cli

import (
	"encoding/json"
	"io"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
)

// The JSON shapes mirror the HTTP API envelope.

type successOutput struct {
	Success bool       `json:"success"`
	Data    outputData `json:"data"`
}

type failureOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type outputData struct {
	BoxDimensions    boxOutput    `json:"box_dimensions"`
	PalletDimensions palletOutput `json:"pallet_dimensions"`
	Optimization     loadOutput   `json:"optimization"`
}

type boxOutput struct {
	Length float64        `json:"length"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Unit   string         `json:"unit"`
	Input  boxInputOutput `json:"input"`
}

type boxInputOutput struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type palletOutput struct {
	Name      string  `json:"name"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	MaxHeight float64 `json:"max_height"`
}

type loadOutput struct {
	BoxesPerLayer   int               `json:"boxes_per_layer"`
	LayersPerPallet int               `json:"layers_per_pallet"`
	BoxesPerPallet  int               `json:"boxes_per_pallet"`
	TotalPallets    int               `json:"total_pallets"`
	FullPallets     int               `json:"full_pallets"`
	RemainingBoxes  int               `json:"remaining_boxes"`
	ActualHeight    float64           `json:"actual_height"`
	Utilization     float64           `json:"layer_utilization"`
	Orientation     orientationOutput `json:"orientation"`
}

const (
	standardPalletName = "standard"
	customPalletName   = "custom"
)

type orientationOutput struct {
	Length  float64 `json:"length"`
	Width   float64 `json:"width"`
	Rotated bool    `json:"rotated"`
}

func newSuccessOutput(input pallet.Dimensions, unit pallet.Unit, r pallet.Result) successOutput {
	return successOutput{
		Success: true,
		Data: outputData{
			BoxDimensions: boxOutput{
				Length: r.Box.Length,
				Width:  r.Box.Width,
				Height: r.Box.Height,
				Unit:   "inches",
				Input: boxInputOutput{
					Length: input.Length,
					Width:  input.Width,
					Height: input.Height,
					Unit:   string(unit),
				},
			},
			PalletDimensions: newPalletOutput(r.Pallet),
			Optimization: loadOutput{
				BoxesPerLayer:   r.BoxesPerLayer,
				LayersPerPallet: r.LayersPerPallet,
				BoxesPerPallet:  r.BoxesPerPallet,
				TotalPallets:    r.TotalPallets,
				FullPallets:     r.FullPallets(),
				RemainingBoxes:  r.RemainingBoxes,
				ActualHeight:    r.ActualHeight,
				Utilization:     r.Utilization(),
				Orientation: orientationOutput{
					Length:  r.Orientation.Length,
					Width:   r.Orientation.Width,
					Rotated: r.Orientation.Rotated,
				},
			},
		},
	}
}

func newFailureOutput(kind string, err error) failureOutput {
	return failureOutput{Success: false, Error: kind, Message: err.Error()}
}

// newPalletOutput names the pallet "standard" unless the flags changed it.
func newPalletOutput(spec pallet.Spec) palletOutput {
	name := customPalletName
	if spec == pallet.Standard() {
		name = standardPalletName
	}
	return palletOutput{Name: name, Length: spec.Length, Width: spec.Width, MaxHeight: spec.MaxHeight}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
