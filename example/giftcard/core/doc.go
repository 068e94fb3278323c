// Package core contains the pure domain model of the gift card example:
// domain events, decision results and nothing else. No I/O, no dependency on
// the storage engine; the shell package does the mapping.
package core
