// Package harness runs mechanics scenarios against the core components.
//
// A scenario builds a small world (an energy pool, a builder point counter,
// a set of effects, cooldowns, and forced random streams), applies a list of
// operations, and checks assertions against the final state and the trace of
// recorded events.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: pool_consume
//	description: "Consumption is all-or-nothing"
//	setup:
//	  pool: {max: 100, regen: 10, initial: 100}
//	  points: {cap: 5, count: 3}
//	  effects:
//	    - {name: slice_and_dice, policy: conditional_extend, extend_base: 6, extend_per: 3}
//	  streams:
//	    effect/bandits_guile: {forced: always}
//	ops:
//	  - {op: consume, amount: 35, expect: true}
//	  - {op: advance, seconds: 2}
//	assertions:
//	  - {type: pool, value: 30}
//	  - {type: trace_count, kind: proc, name: combo_points, count: 1}
//
// Unknown fields are rejected so typos fail loudly.
//
// # Contract Violations
//
// Operations that panic (a negative cost, reading a rank with no points)
// are recovered and recorded. An op marked expect_panic must panic; any
// other op that panics fails the scenario.
//
// # Deterministic Testing
//
// Every stream not forced by the scenario comes from a PCG source seeded
// with the scenario's seed, and tracing starts after setup, so the same
// scenario always produces the same trace for golden comparison.
package harness
