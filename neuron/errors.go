package neuron

import "fmt"

// DuplicateNodeError indicates a node ID occurring more than once in a
// node table.
type DuplicateNodeError struct {
	ID int64
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node id: %d", e.ID)
}

// MissingParentError indicates a parent reference that does not resolve to
// a node in the same table.
type MissingParentError struct {
	ID       int64
	ParentID int64
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("node %d references missing parent %d", e.ID, e.ParentID)
}

// CycleError indicates a cyclic parent chain. ID names a node on the cycle.
type CycleError struct {
	ID int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic parent chain through node %d", e.ID)
}

// MissingNodeError indicates a lookup for a node ID not present in the
// neuron.
type MissingNodeError struct {
	ID int64
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("node %d not found", e.ID)
}
