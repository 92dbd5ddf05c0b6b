// Package sim runs repeated trials of a compiled profile and aggregates
// the results.
//
// Trials are independent. Each worker goroutine owns a private world
// (scheduler, random streams, recorder, encounter, actor) and reseeds it
// with seed+trial before every trial, so the per-trial outcome does not
// depend on which worker ran it or how many workers there are.
package sim
