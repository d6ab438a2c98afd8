// Package actuator maps bitmask commands onto banks of pins.
//
// A Bank binds actuator indices to pin names and applies write, intensity
// and direction commands to every index set in a mask. A Pulser walks a
// mask from the highest index down, holding each actuator active for a
// fixed duration before moving to the next one.
package actuator
