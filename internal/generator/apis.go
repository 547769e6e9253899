package generator

import (
	"cmp"
	"context"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
	"github.com/kolah/apigen/internal/ordered"
)

const defaultTag = "default"

// operationJob is one operation under one of its tags. An operation with
// several tags is built once per tag.
type operationJob struct {
	path   string
	method model.Method
	op     *model.Operation
	tag    string
}

func (j operationJob) String() string {
	return strings.ToUpper(string(j.method)) + " " + j.path + " (" + j.tag + ")"
}

func operationJobs(doc *model.Document) []operationJob {
	var jobs []operationJob
	if doc.Paths == nil {
		return nil
	}
	for path, item := range doc.Paths.All() {
		if item == nil {
			continue
		}
		for _, method := range model.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			tags := op.Tags
			if len(tags) == 0 {
				tags = []string{defaultTag}
			}
			for _, tag := range tags {
				jobs = append(jobs, operationJob{path: path, method: method, op: op, tag: tag})
			}
		}
	}
	return jobs
}

// processPaths builds every operation and groups them by sanitized tag in
// path and method order.
func (g *Generator) processPaths(ctx context.Context) (*ordered.Map[string, []*codegen.Operation], error) {
	c, doc := g.in.Codegen, g.in.Document
	jobs := operationJobs(doc)
	built := make([]*codegen.Operation, len(jobs))
	err := g.parallel(ctx, len(jobs), func(i int) error {
		co, err := c.FromOperation(jobs[i].path, jobs[i].method, jobs[i].op, doc)
		if err != nil {
			return itemError(PhaseOperation, jobs[i].String(), err)
		}
		built[i] = co
		return nil
	})
	if err != nil {
		return nil, err
	}

	groups := ordered.NewMap[string, []*codegen.Operation]()
	for i, co := range built {
		tag := naming.SanitizeTag(jobs[i].tag)
		co.Tags = []string{tag}
		c.AddOperationToGroup(tag, co, groups)
	}
	return groups, nil
}

func (g *Generator) generateAPIs(ctx context.Context) ([]map[string]any, error) {
	groups, err := g.processPaths(ctx)
	if err != nil {
		return nil, err
	}
	var apis []map[string]any
	for _, tag := range slices.Sorted(slices.Values(groups.Keys())) {
		if !allowed(g.in.Selection.APIs, tag) {
			continue
		}
		bundle := g.processOperations(tag, groups.Value(tag))
		if err := g.renderAPI(tag, bundle); err != nil {
			return nil, itemError(PhaseAPI, tag, err)
		}
		apis = append(apis, bundle)
	}
	for i, api := range apis {
		api["hasMore"] = i < len(apis)-1
	}
	return apis, nil
}

// processOperations assembles the bundle of one tag: operations sorted by
// operationId with unique nicknames plus their resolved imports.
func (g *Generator) processOperations(tag string, ops []*codegen.Operation) map[string]any {
	c, doc := g.in.Codegen, g.in.Document
	slices.SortStableFunc(ops, func(a, b *codegen.Operation) int {
		return cmp.Compare(a.OperationID, b.OperationID)
	})
	seen := make(map[string]bool, len(ops))
	counter := 0
	for _, op := range ops {
		id := op.Nickname
		if seen[id] {
			counter++
			op.Nickname = id + "_" + strconv.Itoa(counter)
		}
		seen[id] = true
	}
	for i, op := range ops {
		op.HasMore = i < len(ops)-1
	}

	imports := ordered.NewSet[string]()
	for _, op := range ops {
		for _, name := range op.Imports.Values() {
			if mapped, ok := g.cfg.ImportMapping[name]; ok {
				imports.Add(mapped)
			} else {
				imports.Add(c.ToModelImport(name))
			}
		}
	}
	sortedImports := ordered.Sorted(imports)

	classname := c.ToAPIName(tag)
	bundle := maps.Clone(g.props)
	bundle["additionalProperties"] = g.props
	bundle["package"] = g.cfg.APIPackage
	bundle["apiPackage"] = g.cfg.APIPackage
	bundle["modelPackage"] = g.cfg.ModelPackage
	bundle["imports"] = importList(sortedImports)
	bundle["hasImport"] = len(sortedImports) > 0
	bundle["operations"] = map[string]any{
		"classname":  classname,
		"pathPrefix": c.ToAPIVarName(tag),
		"operation":  ops,
	}
	bundle["basePath"] = g.urls.basePath
	bundle["basePathWithoutHost"] = g.urls.basePathWithoutHost
	bundle["contextPath"] = g.urls.contextPath
	bundle["baseName"] = tag
	bundle["classname"] = classname
	bundle["classVarName"] = c.ToAPIVarName(tag)
	bundle["importPath"] = c.ToAPIImport(classname)
	bundle["sortParamsByRequiredFlag"] = g.cfg.SortParamsByRequiredFlag
	if len(doc.VendorExtensions) > 0 {
		bundle["vendorExtensions"] = doc.VendorExtensions
	}
	if consumes := mediaTypeList(doc.Consumes); len(consumes) > 0 {
		bundle["consumes"] = consumes
		bundle["hasConsumes"] = true
	}
	if produces := mediaTypeList(doc.Produces); len(produces) > 0 {
		bundle["produces"] = produces
		bundle["hasProduces"] = true
	}
	return bundle
}

func mediaTypeList(types []string) []map[string]any {
	out := make([]map[string]any, 0, len(types))
	for i, t := range types {
		out = append(out, map[string]any{"mediaType": t, "hasMore": i < len(types)-1})
	}
	return out
}

func (g *Generator) renderAPI(tag string, bundle map[string]any) error {
	c := g.in.Codegen
	view, err := toView(bundle)
	if err != nil {
		return err
	}
	g.dump(g.in.Debug.Operations, "api view", view)

	folder := c.APIFileFolder()
	err = g.renderTemplates(templateSet{
		files: g.cfg.APITemplateFiles,
		path:  func(suffix string) string { return filepath.Join(folder, c.ToAPIFilename(tag)+suffix) },
	}, overwriteUnlessSkipped, view)
	if err != nil {
		return err
	}
	if !g.in.SkipAPITests {
		folder := c.APITestFileFolder()
		err := g.renderTemplates(templateSet{
			files: g.cfg.APITestTemplateFiles,
			path:  func(suffix string) string { return filepath.Join(folder, c.ToAPITestFilename(tag)+suffix) },
		}, keepExisting, view)
		if err != nil {
			return err
		}
	}
	if !g.in.SkipAPIDocs {
		folder := c.APIDocFileFolder()
		err := g.renderTemplates(templateSet{
			files: g.cfg.APIDocTemplateFiles,
			path:  func(suffix string) string { return filepath.Join(folder, c.ToAPIDocFilename(tag)+suffix) },
		}, keepExisting, view)
		if err != nil {
			return err
		}
	}
	return nil
}
