package domain

import "errors"

// ErrNodeNotFound is returned when an operation references an unknown node id.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound is returned when an operation references an unknown edge id.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrUnknownNodeType is returned for a node type outside the known set.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrInvalidDocument is returned when an imported document does not have the canonical shape.
var ErrInvalidDocument = errors.New("invalid flow document")

// ErrInvalidPatch is returned when a node update carries values of the wrong shape.
var ErrInvalidPatch = errors.New("invalid node patch")

// ErrDuplicateID is returned when a document repeats a node or edge id.
var ErrDuplicateID = errors.New("duplicate id")

// ErrFlowNotFound is returned when a named flow does not exist in a document store.
var ErrFlowNotFound = errors.New("flow not found")
