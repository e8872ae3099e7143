package mathtree

import "errors"

var (
	ErrAlreadyParented = errors.New("node already has a parent")
	ErrNotAChild       = errors.New("node is not a child of this parent")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrNotOperator     = errors.New("only operator nodes own children")
	ErrNotLeaf         = errors.New("node is not an editable leaf")
	ErrCycle           = errors.New("node cannot be attached below itself")
	ErrIndexOutOfRange = errors.New("child index out of range")
	ErrBadPath         = errors.New("path does not address a node")
	ErrUnknownKey      = errors.New("unknown key")
)
