package output

import "fmt"

// OutOfRangeReferenceWarning reports a strand ID the model does not have. The entry is
// skipped.
type OutOfRangeReferenceWarning struct {
	Output   int
	StrandID int
}

func (w *OutOfRangeReferenceWarning) Error() string {
	return fmt.Sprintf("output %d: strand %d does not exist, skipped", w.Output+1, w.StrandID)
}

// MalformedReferenceWarning reports an entry of an output list that is not an integer.
type MalformedReferenceWarning struct {
	Output int
	Entry  string
}

func (w *MalformedReferenceWarning) Error() string {
	return fmt.Sprintf("output %d: strand id %q is not an integer, skipped", w.Output+1, w.Entry)
}

// EmptyOutputWarning reports a configured output that resolves to no points.
type EmptyOutputWarning struct {
	Output int
	Config string
}

func (w *EmptyOutputWarning) Error() string {
	return fmt.Sprintf("output %d: %q resolves to no points, no packets built", w.Output+1, w.Config)
}

// UnresolvedHostError is returned when the destination cannot be resolved. The plan is
// still built; only transmission to it is impossible.
type UnresolvedHostError struct {
	Host string
	Port int
	Err  error
}

func (e *UnresolvedHostError) Error() string {
	return fmt.Sprintf("unresolved art-net destination %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *UnresolvedHostError) Unwrap() error {
	return e.Err
}

// UniverseOverflowWarning reports universe numbers past the 15 bit Art-Net address space.
type UniverseOverflowWarning struct {
	Last int
}

func (w *UniverseOverflowWarning) Error() string {
	return fmt.Sprintf("universe %d exceeds the art-net address space (%d)", w.Last, MaxUniverse)
}
