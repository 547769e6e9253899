package golang

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Format gofmts src and fixes its import block. filename is used to
// report errors and to resolve imports relative to the file.
func Format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return out, nil
}
