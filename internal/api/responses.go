package api

import (
	"time"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
)

// Field names follow the payload the original HTML calculator consumed.

type optimizeRequest struct {
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit"`
	Pallet   string  `json:"pallet"`
}

type optimizeResponse struct {
	Success bool         `json:"success"`
	Data    optimizeData `json:"data"`
}

type optimizeData struct {
	BoxDimensions    boxDimensions    `json:"box_dimensions"`
	PalletDimensions palletDimensions `json:"pallet_dimensions"`
	Optimization     optimization     `json:"optimization"`
}

type boxDimensions struct {
	Length float64  `json:"length"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Unit   string   `json:"unit"`
	Input  boxInput `json:"input"`
}

type boxInput struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type palletDimensions struct {
	Name      string  `json:"name"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	MaxHeight float64 `json:"max_height"`
}

type orientation struct {
	Length  float64 `json:"length"`
	Width   float64 `json:"width"`
	Rotated bool    `json:"rotated"`
}

type optimization struct {
	BoxesPerLayer   int         `json:"boxes_per_layer"`
	LayersPerPallet int         `json:"layers_per_pallet"`
	BoxesPerPallet  int         `json:"boxes_per_pallet"`
	TotalPallets    int         `json:"total_pallets"`
	FullPallets     int         `json:"full_pallets"`
	RemainingBoxes  int         `json:"remaining_boxes"`
	ActualHeight    float64     `json:"actual_height"`
	Utilization     float64     `json:"layer_utilization"`
	Orientation     orientation `json:"orientation"`
}

type palletsResponse struct {
	Pallets []palletDimensions `json:"pallets"`
	Default string             `json:"default"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func newPalletDimensions(name string, spec pallet.Spec) palletDimensions {
	return palletDimensions{
		Name:      name,
		Length:    spec.Length,
		Width:     spec.Width,
		MaxHeight: spec.MaxHeight,
	}
}

func newOptimizeData(profile string, input pallet.Dimensions, unit pallet.Unit, r pallet.Result) optimizeData {
	return optimizeData{
		BoxDimensions: boxDimensions{
			Length: r.Box.Length,
			Width:  r.Box.Width,
			Height: r.Box.Height,
			Unit:   "inches",
			Input: boxInput{
				Length: input.Length,
				Width:  input.Width,
				Height: input.Height,
				Unit:   string(unit),
			},
		},
		PalletDimensions: newPalletDimensions(profile, r.Pallet),
		Optimization: optimization{
			BoxesPerLayer:   r.BoxesPerLayer,
			LayersPerPallet: r.LayersPerPallet,
			BoxesPerPallet:  r.BoxesPerPallet,
			TotalPallets:    r.TotalPallets,
			FullPallets:     r.FullPallets(),
			RemainingBoxes:  r.RemainingBoxes,
			ActualHeight:    r.ActualHeight,
			Utilization:     r.Utilization(),
			Orientation: orientation{
				Length:  r.Orientation.Length,
				Width:   r.Orientation.Width,
				Rotated: r.Orientation.Rotated,
			},
		},
	}
}
