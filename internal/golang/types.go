package golang

import "strings"

// TypeMapping maps the language-neutral swagger type names to Go types.
// Containers are declared by the target as []T and map[string]T.
func TypeMapping() map[string]string {
	return map[string]string{
		"integer":    "int32",
		"long":       "int64",
		"number":     "float32",
		"float":      "float32",
		"double":     "float64",
		"BigDecimal": "float64",
		"boolean":    "bool",
		"string":     "string",
		"UUID":       "string",
		"date":       "string",
		"DateTime":   "time.Time",
		"password":   "string",
		"file":       "*os.File",
		"binary":     "*os.File",
		"ByteArray":  "string",
		"object":     "any",
	}
}

// Primitives are the Go types that never resolve to a generated model.
func Primitives() []string {
	return []string{
		"string", "bool", "byte", "rune", "any",
		"int", "int32", "int64", "uint", "uint32", "uint64",
		"float32", "float64", "complex64", "complex128",
		"time.Time", "*os.File",
	}
}

// ZeroValue returns the literal zero value for a Go type expression.
func ZeroValue(goType string) string {
	for _, prefix := range []string{"[]", "map[", "*", "chan ", "func("} {
		if strings.HasPrefix(goType, prefix) {
			return "nil"
		}
	}
	switch goType {
	case "string":
		return `""`
	case "bool":
		return "false"
	case "int", "int32", "int64", "uint", "uint32", "uint64", "float32", "float64", "byte", "rune":
		return "0"
	case "any", "error", "":
		return "nil"
	}
	return goType + "{}"
}
