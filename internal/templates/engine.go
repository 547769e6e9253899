package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
)

// Engine renders named templates against a view.
type Engine interface {
	Render(name string, view any) (string, error)
	// Resolve returns where name is found: a file system path for user
	// templates, or "embedded:<path>" for built-in ones.
	Resolve(name string) (string, error)
	Read(name string) ([]byte, error)
}

// ErrNotFound is returned when no location in the search order holds a
// template.
var ErrNotFound = errors.New("template not found")

const embeddedPrefix = "embedded:"

type Options struct {
	// Dir is the user template directory searched before the built-ins.
	Dir     string
	Library string
	// Lang is the folder of the target inside the embedded tree.
	Lang string
	// Common is the embedded folder of files shared by every target.
	Common string
	Logger *slog.Logger
}

// MustacheEngine resolves templates through the user directory, then the
// embedded tree, and renders them with cbroglie/mustache. Parsed templates
// are cached; an engine is meant for one sequential rendering pass.
type MustacheEngine struct {
	embedded fs.FS
	opts     Options
	logger   *slog.Logger
	lambdas  map[string]any
	cache    map[string]*mustache.Template
}

func NewEngine(embedded fs.FS, opts Options) *MustacheEngine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MustacheEngine{
		embedded: embedded,
		opts:     opts,
		logger:   logger,
		lambdas:  Lambdas(),
		cache:    make(map[string]*mustache.Template),
	}
}

// candidates lists the search order for name: library override and plain
// file in the user directory, then the same two in the embedded target
// folder, then the embedded common folder.
func (e *MustacheEngine) candidates(name string) (disk, embedded []string) {
	if e.opts.Dir != "" {
		if e.opts.Library != "" {
			disk = append(disk, filepath.Join(e.opts.Dir, "libraries", e.opts.Library, name))
		}
		disk = append(disk, filepath.Join(e.opts.Dir, name))
	}
	if e.opts.Lang != "" {
		if e.opts.Library != "" {
			embedded = append(embedded, path.Join(e.opts.Lang, "libraries", e.opts.Library, name))
		}
		embedded = append(embedded, path.Join(e.opts.Lang, name))
	}
	if e.opts.Common != "" {
		embedded = append(embedded, path.Join(e.opts.Common, name))
	}
	return disk, embedded
}

func (e *MustacheEngine) Resolve(name string) (string, error) {
	disk, embedded := e.candidates(filepath.ToSlash(name))
	for _, p := range disk {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	if e.embedded != nil {
		for _, p := range embedded {
			if info, err := fs.Stat(e.embedded, p); err == nil && !info.IsDir() {
				return embeddedPrefix + p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (e *MustacheEngine) Read(name string) ([]byte, error) {
	loc, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	if p, ok := strings.CutPrefix(loc, embeddedPrefix); ok {
		return fs.ReadFile(e.embedded, p)
	}
	return os.ReadFile(loc)
}

func (e *MustacheEngine) Render(name string, view any) (string, error) {
	tmpl, err := e.parse(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Render(view, e.lambdas)
	if err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return out, nil
}

func (e *MustacheEngine) parse(name string) (*mustache.Template, error) {
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	data, err := e.Read(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := mustache.ParseStringPartials(string(data), &partials{engine: e})
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// partials resolves {{> name}} to name.mustache through the engine search
// order.
type partials struct {
	engine *MustacheEngine
}

func (p *partials) Get(name string) (string, error) {
	data, err := p.engine.Read(name + ".mustache")
	if err != nil {
		return "", fmt.Errorf("partial %s: %w", name, err)
	}
	return string(data), nil
}
