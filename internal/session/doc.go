// Package session implements the guided capture controller: a single-session
// state machine that paces frame sampling, drives remote pose analysis,
// presents feedback, and accumulates one confirmed photo record per pose.
//
// All state lives behind one event loop. A pure transition function maps
// (state, event) to the next state plus a list of side-effect commands; the
// controller executes the commands, so timing, I/O, and presentation stay
// out of the state logic. At most one analysis call is in flight at any
// time, enforced by the phase itself: sampling ticks outside the guiding
// phase do nothing.
package session
