// Package targets lists the built-in generation targets.
package targets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/targets/goclient"
	"github.com/kolah/apigen/internal/targets/java"
)

var registry = map[string]func() codegen.Language{
	"java": func() codegen.Language { return java.New() },
	"go":   func() codegen.Language { return goclient.New() },
}

// Lookup returns a fresh instance of the named target.
func Lookup(name string) (codegen.Language, error) {
	newTarget, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return newTarget(), nil
}

// Names returns the registered target names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
