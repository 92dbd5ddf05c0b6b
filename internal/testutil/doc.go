// Package testutil holds deterministic stand-ins for the simulation's sources
// of variation: random streams and run IDs.
//
// The harness and package tests use these so a scenario produces
// byte-identical traces on every run.
package testutil
