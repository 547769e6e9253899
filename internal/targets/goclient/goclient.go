// Package goclient is the Go client target. Generated sources are run
// through goimports before they are written.
package goclient

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/golang"
	"github.com/kolah/apigen/internal/model"
)

const (
	defaultPackageName    = "swagger"
	defaultPackageVersion = "1.0.0"
)

type Target struct {
	codegen.Base
}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "go"
}

func (t *Target) Help() string {
	return "Generates a Go client library."
}

func (t *Target) Configure(cfg *codegen.Config) {
	cfg.EmbeddedTemplateDir = "go"
	cfg.APIDocPath = "docs"
	cfg.ModelDocPath = "docs"

	cfg.SetReservedWords(golang.Keywords...)
	// locals of the api template
	cfg.AddReservedWords("ctx", "path", "headers", "query", "form", "postBody",
		"req", "resp", "err", "result", "contentTypes", "accepts")
	cfg.TypeMapping = golang.TypeMapping()
	cfg.ImportMapping = map[string]string{}
	cfg.InstantiationTypes = map[string]string{}
	for _, p := range golang.Primitives() {
		cfg.LanguageSpecificPrimitives.Add(p)
		cfg.DefaultIncludes.Add(p)
	}

	props := cfg.AdditionalProperties
	if _, ok := props["packageName"]; !ok {
		props["packageName"] = defaultPackageName
	}
	if _, ok := props["packageVersion"]; !ok {
		props["packageVersion"] = defaultPackageVersion
	}
	props["apiDocPath"] = cfg.APIDocPath + "/"
	props["modelDocPath"] = cfg.ModelDocPath + "/"

	cfg.ModelTemplateFiles.Set("model.mustache", ".go")
	cfg.APITemplateFiles.Set("api.mustache", ".go")
	cfg.ModelDocTemplateFiles.Set("model_doc.mustache", ".md")
	cfg.APIDocTemplateFiles.Set("api_doc.mustache", ".md")

	cfg.SupportingFiles = append(cfg.SupportingFiles,
		codegen.SupportingFile{TemplateFile: "README.mustache", DestinationFilename: "README.md"},
		codegen.SupportingFile{TemplateFile: "client.mustache", DestinationFilename: "client.go"},
		codegen.SupportingFile{TemplateFile: "configuration.mustache", DestinationFilename: "configuration.go"},
		codegen.SupportingFile{TemplateFile: "go.mod.mustache", DestinationFilename: "go.mod"},
		codegen.SupportingFile{TemplateFile: "gitignore", DestinationFilename: ".gitignore"},
	)
}

func (t *Target) EscapeReservedWord(name string) string {
	return name + "_"
}

// SwaggerType declares containers in place so their base type stays a
// valid Go type expression.
func (t *Target) SwaggerType(c *codegen.Codegen, p model.Property) string {
	switch p.(type) {
	case *model.ArrayProperty, *model.MapProperty:
		return t.TypeDeclaration(c, p)
	}
	swaggerType := codegen.RawSwaggerType(p)
	if mapped, ok := c.Config().TypeMapping[swaggerType]; ok {
		return mapped
	}
	return c.ToModelName(swaggerType)
}

func (t *Target) TypeDeclaration(c *codegen.Codegen, p model.Property) string {
	switch p := p.(type) {
	case *model.ArrayProperty:
		return "[]" + c.TypeDeclaration(p.Items)
	case *model.MapProperty:
		return "map[string]" + c.TypeDeclaration(p.AdditionalProperties)
	}
	return t.SwaggerType(c, p)
}

func (t *Target) ToModelName(c *codegen.Codegen, name string) string {
	cfg := c.Config()
	name = golang.Identifier(cfg.ModelNamePrefix + "_" + name + "_" + cfg.ModelNameSuffix)
	if c.IsReservedWord(name) {
		return "Model" + name
	}
	return name
}

func (t *Target) ToModelFilename(c *codegen.Codegen, name string) string {
	return "model_" + golang.SnakeCase(t.ToModelName(c, name))
}

func (t *Target) ToAPIFilename(c *codegen.Codegen, tag string) string {
	if tag == "" {
		tag = "default"
	}
	return "api_" + golang.SnakeCase(tag)
}

// ToVarName returns an exported struct field name.
func (t *Target) ToVarName(c *codegen.Codegen, name string) string {
	return golang.Identifier(name)
}

func (t *Target) ToParamName(c *codegen.Codegen, name string) string {
	name = golang.CamelCase(name)
	if name == "" {
		return "param"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "p" + name
	}
	if c.IsReservedWord(name) {
		return t.EscapeReservedWord(name)
	}
	return name
}

func (t *Target) ToOperationID(c *codegen.Codegen, id string) string {
	return golang.Identifier(id)
}

// ParameterExample falls back to the zero value of the parameter type.
func (t *Target) ParameterExample(c *codegen.Codegen, p *codegen.Parameter) {
	switch {
	case p.DataType == "string":
		example := p.Example
		if example == "" {
			example = p.ParamName + "_example"
		}
		p.Example = `"` + c.EscapeText(example) + `"`
	case p.Example == "":
		p.Example = golang.ZeroValue(p.DataType)
	}
}

func (t *Target) PostProcessFile(path string, content []byte) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".go") {
		return content, nil
	}
	return golang.Format(path, content)
}
