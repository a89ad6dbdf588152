// Package design implements the sliding-window probe design scan.
//
// For each cursor position the target-strand window is reverse
// complemented into a candidate probe, scored (GC, Tm, complexity,
// repeats, homopolymer runs) and accepted when every criterion holds.
// Accepted windows advance the cursor by ProbeLength+Spacing-1; rejected
// ones by a single base. The scan is deterministic and stateless.
package design
