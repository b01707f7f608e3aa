// Package cli implements the palletcalc command line tool.
package cli
