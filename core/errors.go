package core

import "errors"

var (
	// ErrNoPath signals that source and destination are disconnected under
	// the current exclusion set. Callers translate it into the unreachable
	// or partial outcome; it never aborts a run.
	ErrNoPath = errors.New("no path between source and destination")

	// ErrInvalidDemand marks a malformed demand (self-referential, or
	// referencing an unknown node). The demand is rejected before any
	// search and the run continues.
	ErrInvalidDemand = errors.New("invalid traffic demand")

	// ErrInvalidConfig marks an inconsistent algorithm configuration. It is
	// raised once, before any demand is processed, and aborts the run.
	ErrInvalidConfig = errors.New("invalid algorithm configuration")

	// ErrDisjointnessViolation indicates the engine committed a path set
	// that shares an edge. This is an engine defect, never a legitimate
	// outcome, and always aborts the run.
	ErrDisjointnessViolation = errors.New("link-disjointness violated")

	// ErrUnknownAlgorithm is returned when dispatching on an algorithm kind
	// outside the closed set (ldmr, spf, ecmp).
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
