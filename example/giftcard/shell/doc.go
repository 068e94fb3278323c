// Package shell contains the non-domain plumbing of the gift card example:
// mapping between domain events and storable events, event metadata, and the
// retry logic for optimistic concurrency conflicts.
package shell
