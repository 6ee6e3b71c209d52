package roadgen

import (
	"github.com/pkg/errors"
)

// Errors returned by the road network builder. Every returned error wraps one of these,
// so callers should match with errors.Is (or errors.Cause).
var (
	// ErrInvalidGeometry is returned for non-positive lengths and non-finite curve parameters
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidTopology is returned for out-of-order or out-of-range lane section offsets
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrOverlappingWidthRange is returned when a polynomial record starts before the covered range ends
	ErrOverlappingWidthRange = errors.New("overlapping width range")
	// ErrGapInWidthRange is returned when polynomial records leave part of their range uncovered
	ErrGapInWidthRange = errors.New("gap in width range")
	// ErrUnresolvedReference is returned when a road, junction or lane identifier does not exist
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrDuplicateConnection is returned by junction closing for exact duplicate connections
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrDegenerateConnection is returned by junction closing for self-loops at the same road end
	ErrDegenerateConnection = errors.New("degenerate connection")
	// ErrJunctionClosed is returned when a closed junction is modified
	ErrJunctionClosed = errors.New("junction is closed")
	// ErrRoadFinalized is returned when a finalized road is modified
	ErrRoadFinalized = errors.New("road is finalized")
	// ErrPositionOutOfRange is returned when an s-offset lies outside of a road or a geometry
	ErrPositionOutOfRange = errors.New("position out of range")
	// ErrSessionFinalized is returned when roads or junctions are added to a finalized session
	ErrSessionFinalized = errors.New("session is finalized")
	// ErrNotFinalized is returned by consumers of the finished network when the session is still being built
	ErrNotFinalized = errors.New("session is not finalized")
)
