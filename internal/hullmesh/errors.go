package hullmesh

import "errors"

// Fatal conditions. Any of these aborts the triangulation of one hull; the
// graph built so far is released and no partial mesh is returned.
var (
	// ErrNoDominantAxis is returned for a plane whose normal has no usable
	// component (zero or NaN).
	ErrNoDominantAxis = errors.New("plane has no dominant axis")
	// ErrWindingOverflow is returned when a winding would need more than
	// MaxPointsOnWinding points.
	ErrWindingOverflow = errors.New("winding point buffer overflow")
	// ErrMislinkedPortal is an internal invariant violation in the portal graph.
	ErrMislinkedPortal = errors.New("mislinked portal")
	// ErrCountMismatch means the write pass emitted a different amount of
	// geometry than the count pass measured.
	ErrCountMismatch = errors.New("mesh counts do not reconcile")
	// ErrBadHull is returned for a hull tree that cannot be mirrored.
	ErrBadHull = errors.New("malformed hull")
	// ErrBadBounds is returned when the bounding box is inverted or not finite.
	ErrBadBounds = errors.New("invalid hull bounds")
)

// ErrPortalClippedAway is only returned in strict mode. Otherwise a node
// plane whose boundary portal clips to nothing is logged and skipped.
var ErrPortalClippedAway = errors.New("node portal was clipped away")
