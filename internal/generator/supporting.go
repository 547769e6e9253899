package generator

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/ignore"
	"github.com/kolah/apigen/internal/templates"
)

const licenseFile = "LICENSE"

// supportingBundle is the single view shared by every supporting file.
func (g *Generator) supportingBundle(models []modelEntry, apis []map[string]any) (map[string]any, error) {
	c, doc := g.in.Codegen, g.in.Document

	apis = slices.Clone(apis)
	slices.SortStableFunc(apis, func(a, b map[string]any) int {
		return cmp.Compare(fmt.Sprint(a["classname"]), fmt.Sprint(b["classname"]))
	})
	modelViews := make([]map[string]any, 0, len(models))
	for _, e := range models {
		modelViews = append(modelViews, e.view())
	}

	bundle := maps.Clone(g.props)
	bundle["additionalProperties"] = g.props
	bundle["apiPackage"] = g.cfg.APIPackage
	bundle["modelPackage"] = g.cfg.ModelPackage
	bundle["apiFolder"] = strings.ReplaceAll(g.cfg.APIPackage, ".", string(filepath.Separator))
	bundle["host"] = doc.Host
	bundle["scheme"] = g.urls.scheme
	bundle["basePath"] = g.urls.basePath
	bundle["basePathWithoutHost"] = g.urls.basePathWithoutHost
	bundle["contextPath"] = g.urls.contextPath
	bundle["swagger"] = map[string]any{
		"swagger":  doc.Swagger,
		"host":     doc.Host,
		"basePath": doc.BasePath,
		"schemes":  doc.Schemes,
		"info": map[string]any{
			"title":          doc.Info.Title,
			"description":    doc.Info.Description,
			"version":        doc.Info.Version,
			"termsOfService": doc.Info.TermsOfService,
		},
	}
	bundle["apiInfo"] = map[string]any{"apis": apis}
	bundle["models"] = modelViews
	if doc.ExternalDocs != nil {
		bundle["externalDocs"] = doc.ExternalDocs
	}

	auth, err := c.FromSecurity(doc.SecurityDefinitions)
	if err != nil {
		return nil, err
	}
	if len(auth) > 0 {
		bundle["authMethods"] = auth
		bundle["hasAuthMethods"] = true
	}
	return toView(bundle)
}

func (g *Generator) generateSupportingFiles(models []modelEntry, apis []map[string]any) error {
	view, err := g.supportingBundle(models, apis)
	if err != nil {
		return err
	}
	g.dump(g.in.Debug.SupportingFiles, "supporting files view", view)

	for _, sf := range g.cfg.SupportingFiles {
		if err := g.supportingFile(sf, view); err != nil {
			return itemError(PhaseSupporting, sf.DestinationFilename, err)
		}
	}

	if g.cfg.AddIgnoreFile {
		if err := g.commonFile(ignore.FileName); err != nil {
			return itemError(PhaseSupporting, ignore.FileName, err)
		}
	}
	if g.cfg.AddLicenseFile {
		if err := g.commonFile(licenseFile); err != nil {
			return itemError(PhaseSupporting, licenseFile, err)
		}
	}
	return nil
}

func (g *Generator) supportingFile(sf codegen.SupportingFile, view map[string]any) error {
	if !allowed(g.in.Selection.SupportingFiles, sf.DestinationFilename) {
		return nil
	}
	path := filepath.Join(g.cfg.OutputDir, sf.Folder, sf.DestinationFilename)

	engine := g.engine
	if sf.Global {
		engine = g.common
	}
	if _, err := engine.Resolve(sf.TemplateFile); err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			g.logger.Warn("could not resolve supporting file template", "template", sf.TemplateFile)
			return nil
		}
		return err
	}
	if !g.writable(path, overwriteUnlessSkipped) {
		return nil
	}

	if strings.HasSuffix(sf.TemplateFile, ".mustache") {
		return g.render(engine, sf.TemplateFile, path, view)
	}
	data, err := engine.Read(sf.TemplateFile)
	if err != nil {
		return err
	}
	return g.write(path, data)
}

// commonFile copies name from the common templates to the output root
// unless the file is already there.
func (g *Generator) commonFile(name string) error {
	if !allowed(g.in.Selection.SupportingFiles, name) {
		return nil
	}
	path := filepath.Join(g.cfg.OutputDir, name)
	if exists(path) {
		return nil
	}
	data, err := g.common.Read(name)
	if err != nil {
		return err
	}
	return g.write(path, data)
}
