// Package ignore applies a .swagger-codegen-ignore file to generated paths.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the ignore file looked up in the output directory.
const FileName = ".swagger-codegen-ignore"

// Processor answers whether a generated file may be written. Rules use
// gitignore syntax and match paths relative to the output directory.
type Processor struct {
	root  string
	rules *gitignore.GitIgnore
}

// Load reads FileName from outputDir. A missing file allows every path.
func Load(outputDir string) (*Processor, error) {
	p := &Processor{root: outputDir}
	rules, err := gitignore.CompileIgnoreFile(filepath.Join(outputDir, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	p.rules = rules
	return p, nil
}

// FromLines builds a processor from in-memory rules.
func FromLines(outputDir string, lines ...string) *Processor {
	return &Processor{root: outputDir, rules: gitignore.CompileIgnoreLines(lines...)}
}

// AllowsFile reports whether path, absolute or relative to the output
// directory, is not matched by any rule.
func (p *Processor) AllowsFile(path string) bool {
	if p == nil || p.rules == nil {
		return true
	}
	rel := path
	if p.root != "" {
		if r, err := filepath.Rel(p.root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return !p.rules.MatchesPath(filepath.ToSlash(rel))
}

// Exists reports whether the output directory already has an ignore file.
func Exists(outputDir string) bool {
	_, err := os.Stat(filepath.Join(outputDir, FileName))
	return err == nil
}
