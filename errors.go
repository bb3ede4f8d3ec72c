package cms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a structural path segment that matches no model child.
	ErrNotFound = errors.New("cms: not found")
	// ErrInvalidNodeType indicates an operation the node's model type does not support.
	ErrInvalidNodeType = errors.New("cms: invalid node type")
	// ErrBadIndex indicates a list segment that is not a non-negative integer.
	ErrBadIndex = errors.New("cms: list index is not a non-negative integer")
	// ErrTrailingSegments indicates segments left after the list index or map key.
	ErrTrailingSegments = errors.New("cms: unexpected segments after list index or map key")
	// ErrDataShape indicates data whose kind contradicts its model.
	ErrDataShape = errors.New("cms: data does not match the model")
	// ErrNoData indicates an operation that needs content at a path holding none.
	ErrNoData = errors.New("cms: no data at path")
)

// NotFoundError reports the first segment of Path that could not be resolved.
type NotFoundError struct {
	Path    string
	Segment string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cms: %q not found (path %q)", e.Segment, e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidNodeTypeError reports an operation attempted on the wrong kind of node.
type InvalidNodeTypeError struct {
	Path string
	Type NodeType
	Op   string
}

func (e *InvalidNodeTypeError) Error() string {
	typ := e.Type
	if typ == "" {
		typ = "leaf"
	}
	return fmt.Sprintf("cms: cannot %s on %s node (path %q)", e.Op, typ, e.Path)
}

func (e *InvalidNodeTypeError) Unwrap() error { return ErrInvalidNodeType }

// PathError wraps a path-level failure other than a missing structural child.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("%v (path %q)", e.Err, e.Path)
	}
	return fmt.Sprintf("%v: %q (path %q)", e.Err, e.Segment, e.Path)
}

func (e *PathError) Unwrap() error { return e.Err }
