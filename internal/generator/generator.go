// Package generator drives one code generation run: it flattens inline
// schemas, builds the IR of every selected model and operation, renders
// the target templates and writes the results under the output directory.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/ignore"
	"github.com/kolah/apigen/internal/inline"
	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
	"github.com/kolah/apigen/internal/templates"
)

// Selection restricts the phases of a run. A nil list leaves its phase
// unrestricted, an empty non-nil list enables the phase for every item.
// Once any list is non-nil, phases whose list is nil are skipped.
type Selection struct {
	Models          []string
	APIs            []string
	SupportingFiles []string
}

func (s Selection) restricted() bool {
	return s.Models != nil || s.APIs != nil || s.SupportingFiles != nil
}

func (s Selection) enabled(list []string) bool {
	return !s.restricted() || list != nil
}

func allowed(list []string, name string) bool {
	return len(list) == 0 || slices.Contains(list, name)
}

// Debug logs the assembled views at info level before rendering.
type Debug struct {
	Models          bool
	Operations      bool
	SupportingFiles bool
}

// Input bundles the normalized document, the target configuration and the
// run options.
type Input struct {
	Document *model.Document
	Codegen  *codegen.Codegen
	// Templates is the built-in template tree: one folder per target plus
	// the common folder.
	Templates fs.FS
	Selection Selection

	SkipModelTests bool
	SkipModelDocs  bool
	SkipAPITests   bool
	SkipAPIDocs    bool

	// Workers bounds concurrent IR building; zero means GOMAXPROCS.
	Workers int
	Debug   Debug
	Logger  *slog.Logger
}

type Generator struct {
	in     Input
	logger *slog.Logger

	cfg    *codegen.Config
	engine templates.Engine
	common templates.Engine
	ignore *ignore.Processor
	props  map[string]any
	urls   baseURLs
	files  []string
}

func New(in Input) *Generator {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{in: in, logger: logger}
}

// Generate runs the models, apis and supporting files phases in that order
// and returns every written path in emission order. The first failure
// aborts the run; files written before it stay on disk.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	if g.in.Document == nil {
		return nil, &ConfigError{Reason: "missing document"}
	}
	if g.in.Codegen == nil {
		return nil, &ConfigError{Reason: "missing target configuration"}
	}
	if g.in.Workers < 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid worker count %d", g.in.Workers)}
	}
	g.files = nil
	g.cfg = g.in.Codegen.Config()

	if err := inline.NewResolver(g.logger).Flatten(g.in.Document); err != nil {
		return nil, fmt.Errorf("flattening inline models: %w", err)
	}

	g.engine = templates.NewEngine(g.in.Templates, templates.Options{
		Dir:     g.cfg.TemplateDir,
		Library: g.cfg.Library,
		Lang:    g.cfg.EmbeddedTemplateDir,
		Common:  g.cfg.CommonTemplateDir,
		Logger:  g.logger,
	})
	g.common = templates.NewEngine(g.in.Templates, templates.Options{
		Lang:   g.cfg.CommonTemplateDir,
		Logger: g.logger,
	})

	processor, err := ignore.Load(g.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	g.ignore = processor

	g.configureProperties()

	sel := g.in.Selection
	var models []modelEntry
	if sel.enabled(sel.Models) {
		if models, err = g.generateModels(ctx); err != nil {
			return g.files, err
		}
	}
	var apis []map[string]any
	if sel.enabled(sel.APIs) {
		if apis, err = g.generateAPIs(ctx); err != nil {
			return g.files, err
		}
	}
	if sel.enabled(sel.SupportingFiles) {
		if err := g.generateSupportingFiles(models, apis); err != nil {
			return g.files, err
		}
	}
	return g.files, nil
}

// configureProperties copies the target's additionalProperties and adds the
// run and document metadata every view sees.
func (g *Generator) configureProperties() {
	c, doc := g.in.Codegen, g.in.Document
	props := maps.Clone(g.cfg.AdditionalProperties)
	if props == nil {
		props = make(map[string]any)
	}

	props["generateApiTests"] = !g.in.SkipAPITests
	props["generateModelTests"] = !g.in.SkipModelTests
	if g.in.SkipAPITests && g.in.SkipModelTests {
		props["excludeTests"] = true
	}
	if !g.cfg.HideGenerationTimestamp {
		props["generatedDate"] = time.Now().Format(time.RFC3339)
	}
	props["generatorClass"] = c.Language().Name()

	info := doc.Info
	if info.Title != "" {
		props["appName"] = c.EscapeText(info.Title)
	}
	if info.Version != "" {
		props["appVersion"] = c.EscapeText(info.Version)
		props["version"] = info.Version
	}
	if info.Description != "" {
		props["appDescription"] = c.EscapeText(info.Description)
	} else {
		props["appDescription"] = "No description provided (generated by apigen)"
	}
	if info.Contact != nil {
		if info.Contact.URL != "" {
			props["infoUrl"] = info.Contact.URL
		}
		if info.Contact.Email != "" {
			props["infoEmail"] = info.Contact.Email
		}
	}
	if info.License != nil {
		if info.License.Name != "" {
			props["licenseInfo"] = info.License.Name
		}
		if info.License.URL != "" {
			props["licenseUrl"] = info.License.URL
		}
	}
	if info.TermsOfService != "" {
		props["termsOfService"] = info.TermsOfService
	}
	if len(doc.VendorExtensions) > 0 {
		props["vendorExtensions"] = doc.VendorExtensions
	}

	g.props = props
	g.urls = documentURLs(doc)
}

type baseURLs struct {
	basePath            string
	basePathWithoutHost string
	contextPath         string
	scheme              string
	host                string
}

func documentURLs(doc *model.Document) baseURLs {
	scheme := "https"
	if len(doc.Schemes) > 0 {
		scheme = doc.Schemes[0]
	}
	host := doc.Host
	if host == "" {
		host = "localhost"
	}
	return baseURLs{
		basePath:            strings.TrimSuffix(scheme+"://"+host+doc.BasePath, "/"),
		basePathWithoutHost: doc.BasePath,
		contextPath:         strings.TrimSuffix(doc.BasePath, "/"),
		scheme:              scheme,
		host:                doc.Host,
	}
}

// parallel runs fn for every index on a bounded pool and returns the first
// error. Scheduling stops once a call has failed.
func (g *Generator) parallel(ctx context.Context, n int, fn func(i int) error) error {
	workers := g.in.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range n {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// fileRule decides what happens when an output file already exists.
type fileRule int

const (
	// overwriteUnlessSkipped rewrites the file unless SkipOverwrite is set.
	overwriteUnlessSkipped fileRule = iota
	// keepExisting never touches an existing file.
	keepExisting
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writable applies the overwrite rule and the ignore file to path.
func (g *Generator) writable(path string, rule fileRule) bool {
	if exists(path) && (rule == keepExisting || g.cfg.SkipOverwrite) {
		g.logger.Info("skipped existing file", "file", path)
		return false
	}
	if !g.ignore.AllowsFile(path) {
		g.logger.Info("skipped file excluded by ignore rules", "file", path)
		return false
	}
	return true
}

// renderTemplates renders every template of set against view. The output
// path of a template is built from its suffix.
func (g *Generator) renderTemplates(set templateSet, rule fileRule, view map[string]any) error {
	for tmpl, suffix := range set.files.All() {
		path := set.path(suffix)
		if !g.writable(path, rule) {
			continue
		}
		if err := g.render(g.engine, tmpl, path, view); err != nil {
			return err
		}
	}
	return nil
}

type templateSet struct {
	files *ordered.Map[string, string]
	path func(suffix string) string
}

func (g *Generator) render(engine templates.Engine, tmpl, path string, view map[string]any) error {
	out, err := engine.Render(tmpl, view)
	if err != nil {
		return err
	}
	data, err := g.in.Codegen.Language().PostProcessFile(path, []byte(out))
	if err != nil {
		return fmt.Errorf("post-processing %s: %w", path, err)
	}
	return g.write(path, data)
}

func (g *Generator) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	g.logger.Debug("wrote file", "file", path)
	g.files = append(g.files, path)
	return nil
}

// toView turns a bundle into the plain maps and slices templates walk,
// going through the JSON form of the IR.
func toView(bundle map[string]any) (map[string]any, error) {
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encoding view: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var view map[string]any
	if err := dec.Decode(&view); err != nil {
		return nil, fmt.Errorf("decoding view: %w", err)
	}
	return view, nil
}

func (g *Generator) dump(enabled bool, msg string, view map[string]any) {
	if !enabled {
		return
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		g.logger.Warn("could not dump view", "view", msg, "error", err)
		return
	}
	g.logger.Info(msg, "view", string(data))
}

func itemError(phase Phase, item string, err error) error {
	var ie *ItemError
	if errors.As(err, &ie) {
		return err
	}
	return &ItemError{Phase: phase, Item: item, Err: err}
}
