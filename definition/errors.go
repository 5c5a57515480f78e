package definition

import (
	"errors"
	"fmt"
)

// Import error kinds. Every ImportError wraps exactly one of them.
var (
	ErrMalformed       = errors.New("malformed definition")
	ErrBadID           = errors.New("bad node id")
	ErrMissingType     = errors.New("missing node type")
	ErrBadType         = errors.New("unknown node type")
	ErrDuplicateID     = errors.New("duplicate node id")
	ErrMultipleRoots   = errors.New("multiple root nodes")
	ErrNoRoot          = errors.New("no root node")
	ErrUnknownChild    = errors.New("unknown child id")
	ErrMultipleParents = errors.New("node has multiple parents")
	ErrCycle           = errors.New("cycle in node graph")
	ErrUnreachable     = errors.New("node not reachable from root")
	ErrInit            = errors.New("node initialization failed")
)

// ImportError reports why a definition cannot be turned into a tree.
// NodeID is zero when the error is not tied to a single node.
type ImportError struct {
	Kind   error
	NodeID int
	Err    error
}

// NewImportError creates an ImportError.
func NewImportError(kind error, nodeID int, err error) *ImportError {
	return &ImportError{Kind: kind, NodeID: nodeID, Err: err}
}

func (e *ImportError) Error() string {
	msg := e.Kind.Error()
	if e.NodeID != 0 {
		msg = fmt.Sprintf("node %d: %s", e.NodeID, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "import: " + msg
}

// Unwrap exposes the kind and the underlying cause to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
