package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against construction failures.
var (
	ErrNilPipeline     = errors.New("nil pipeline")
	ErrDuplicateNodeID = errors.New("duplicate node id")
	ErrDuplicatePortID = errors.New("duplicate port id")
)

// DuplicateNodeIDError reports two nodes sharing an id.
type DuplicateNodeIDError struct {
	NodeID string
}

func (e *DuplicateNodeIDError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateNodeID, e.NodeID)
}

func (e *DuplicateNodeIDError) Unwrap() error { return ErrDuplicateNodeID }

// DuplicatePortIDError reports two ports on the same node sharing an id.
type DuplicatePortIDError struct {
	NodeID string
	PortID string
}

func (e *DuplicatePortIDError) Error() string {
	return fmt.Sprintf("%s: %q on node %q", ErrDuplicatePortID, e.PortID, e.NodeID)
}

func (e *DuplicatePortIDError) Unwrap() error { return ErrDuplicatePortID }
