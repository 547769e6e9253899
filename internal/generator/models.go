package generator

import (
	"cmp"
	"context"
	"maps"
	"path/filepath"
	"slices"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/ordered"
)

// modelEntry is one model as listed in the models bundle and the
// supporting files bundle.
type modelEntry struct {
	name       string
	depth      int
	model      *codegen.Model
	importPath string
}

func (e modelEntry) view() map[string]any {
	return map[string]any{"model": e.model, "importPath": e.importPath}
}

func (g *Generator) generateModels(ctx context.Context) ([]modelEntry, error) {
	c, defs := g.in.Codegen, g.in.Document.Definitions
	if defs == nil || defs.Len() == 0 {
		return nil, nil
	}
	var names []string
	for _, name := range defs.Keys() {
		if !allowed(g.in.Selection.Models, name) {
			continue
		}
		if _, mapped := g.cfg.ImportMapping[name]; mapped {
			g.logger.Info("model found in import mapping, skipping", "model", name)
			continue
		}
		names = append(names, name)
	}

	entries := make([]modelEntry, len(names))
	err := g.parallel(ctx, len(names), func(i int) error {
		name := names[i]
		m := c.FromModel(name, defs.Value(name), defs)
		c.PostProcessModelEnums(m)
		entries[i] = modelEntry{
			name:       name,
			depth:      codegen.ModelDepth(name, defs),
			model:      m,
			importPath: c.ToModelImport(m.Classname),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Parents come before their children.
	slices.SortStableFunc(entries, func(a, b modelEntry) int {
		return cmp.Or(cmp.Compare(a.depth, b.depth), cmp.Compare(a.model.Classname, b.model.Classname))
	})
	all := make([]*codegen.Model, len(entries))
	for i, e := range entries {
		all[i] = e.model
	}
	c.PostProcessAllModels(all)

	for _, e := range entries {
		if err := g.renderModel(e); err != nil {
			return nil, itemError(PhaseModel, e.name, err)
		}
	}

	slices.SortStableFunc(entries, func(a, b modelEntry) int {
		return cmp.Compare(a.model.Classname, b.model.Classname)
	})
	for i, e := range entries {
		e.model.HasMoreModels = i < len(entries)-1
	}
	return entries, nil
}

func (g *Generator) renderModel(e modelEntry) error {
	c := g.in.Codegen
	bundle := maps.Clone(g.props)
	bundle["package"] = g.cfg.ModelPackage
	bundle["models"] = []map[string]any{e.view()}
	bundle["imports"] = g.modelImports(e.model)
	bundle["classname"] = e.model.Classname

	view, err := toView(bundle)
	if err != nil {
		return err
	}
	g.dump(g.in.Debug.Models, "model view", view)

	folder := c.ModelFileFolder()
	err = g.renderTemplates(templateSet{
		files: g.cfg.ModelTemplateFiles,
		path:  func(suffix string) string { return filepath.Join(folder, c.ToModelFilename(e.name)+suffix) },
	}, overwriteUnlessSkipped, view)
	if err != nil {
		return err
	}
	if !g.in.SkipModelTests {
		folder := c.ModelTestFileFolder()
		err := g.renderTemplates(templateSet{
			files: g.cfg.ModelTestTemplateFiles,
			path:  func(suffix string) string { return filepath.Join(folder, c.ToModelTestFilename(e.name)+suffix) },
		}, keepExisting, view)
		if err != nil {
			return err
		}
	}
	if !g.in.SkipModelDocs {
		folder := c.ModelDocFileFolder()
		err := g.renderTemplates(templateSet{
			files: g.cfg.ModelDocTemplateFiles,
			path:  func(suffix string) string { return filepath.Join(folder, c.ToModelDocFilename(e.name)+suffix) },
		}, keepExisting, view)
		if err != nil {
			return err
		}
	}
	return nil
}

// modelImports resolves the referenced types of m to import statements,
// including the instantiation types of its containers.
func (g *Generator) modelImports(m *codegen.Model) []map[string]string {
	set := ordered.NewSet[string]()
	add := func(imp string) {
		if imp != "" && !g.cfg.DefaultIncludes.Has(imp) {
			set.Add(imp)
		}
	}
	for _, name := range m.Imports.Values() {
		if mapped, ok := g.cfg.ImportMapping[name]; ok {
			add(mapped)
		} else {
			add(g.in.Codegen.ToModelImport(name))
		}
		if inst, ok := g.cfg.InstantiationTypes[name]; ok {
			add(inst)
		}
	}
	return importList(set.Values())
}

func importList(imports []string) []map[string]string {
	out := make([]map[string]string, 0, len(imports))
	for _, imp := range imports {
		out = append(out, map[string]string{"import": imp})
	}
	return out
}
