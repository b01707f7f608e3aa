// Package application provides application initialization and dependency wiring.
// It builds the pallet profile storage, HTTP handlers, router and server from
// a resolved configuration, so that the main package only deals with CLI
// parsing and process lifecycle.
package application
