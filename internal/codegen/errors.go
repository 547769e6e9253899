package codegen

import "fmt"

// StructuralError reports document input the builder cannot turn into IR.
type StructuralError struct {
	// Kind is the node kind: "operation", "parameter", "security", "model".
	Kind string
	// Identity names the offending node, e.g. "GET /pets" or "petstore_auth".
	Identity string
	Reason   string
}

func (e *StructuralError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Identity, e.Reason)
}

func structural(kind, identity, format string, args ...any) *StructuralError {
	return &StructuralError{
		Kind:     kind,
		Identity: identity,
		Reason:   fmt.Sprintf(format, args...),
	}
}
