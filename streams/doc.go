// Package streams provides the lazy, pull-based sequence abstraction that
// storage engine read operations return, together with the Future primitive
// used for single asynchronous results.
//
// The package is deliberately message-agnostic: a Stream carries values of any
// type, knows nothing about events, and is reusable wherever a composable,
// lazily-pulled sequence with failure propagation is needed.
//
// Four variants satisfy the one Stream contract:
//   - Just / FromSlice: already-computed values
//   - FromFuture: a single value whose computation may still be pending
//   - FromSeq: a lazily pulled sequence, computed one pull at a time
//   - Failed: terminally poisoned with an error
//
// Composition is referentially transparent with respect to poisoning: once a
// stream has failed, every stream derived from it via Map fails with the same
// error, Reduce settles with that error, and transforms and accumulators are
// never invoked against it.
package streams
