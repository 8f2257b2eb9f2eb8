// Package status renders connection lifecycle outcomes as LED blink
// patterns.
//
// Each reportable event maps to a fixed pattern of on/off durations and a
// repeat count; playback is synchronous and patterns never interleave.
// The package depends only on an LED set function and a clock, so it runs
// unchanged against real hardware or a recording fake.
package status
