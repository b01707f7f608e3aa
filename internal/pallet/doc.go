// Package pallet computes how many identical boxes fit on a pallet. It tries
// both horizontal orientations of the box footprint, stacks layers up to the
// pallet height limit and derives how many pallets a shipment needs. All
// calculations run in inches; centimeter input is converted first.
package pallet
