package cxxtype

import "github.com/skdltmxn/cxxtype-go/internal/parser"

// ErrInvariant is wrapped by errors reporting malformed names.
var ErrInvariant = parser.ErrInvariant

// InvariantError describes a name which violates the assumptions about
// compiler generated names.
type InvariantError = parser.InvariantError
