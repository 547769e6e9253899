// Package java is the Java client target for Android projects. It writes
// model and api classes plus the Gradle build around them.
package java

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
)

const (
	projectFolder = "src/main"

	defaultInvokerPackage  = "io.swagger.client"
	defaultGroupID         = "io.swagger"
	defaultArtifactID      = "swagger-android-client"
	defaultArtifactVersion = "1.0.0"
	defaultLibrary         = "volley"
)

var reservedWords = []string{
	// locals used by the api templates
	"localVarPostBody", "localVarPath", "localVarQueryParams", "localVarHeaderParams",
	"localVarFormParams", "localVarContentTypes", "localVarContentType",
	"localVarResponse", "localVarBuilder", "authNames", "basePath", "apiInvoker",

	"abstract", "continue", "for", "new", "switch", "assert", "default", "if",
	"package", "synchronized", "boolean", "do", "goto", "private", "this",
	"break", "double", "implements", "protected", "throw", "byte", "else",
	"import", "public", "throws", "case", "enum", "instanceof", "return",
	"transient", "catch", "extends", "int", "short", "try", "char", "final",
	"interface", "static", "void", "class", "finally", "long", "strictfp",
	"volatile", "const", "float", "native", "super", "while",
}

var (
	upperSnake    = regexp.MustCompile(`^[A-Z_]*$`)
	leadingDigit  = regexp.MustCompile(`^\d`)
	typeWithClass = map[string]bool{"Map": true, "List": true, "File": true, "Date": true}
)

type Target struct {
	codegen.Base
}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "java"
}

func (t *Target) Help() string {
	return "Generates a Java client library for Android (volley or httpclient)."
}

func (t *Target) Configure(cfg *codegen.Config) {
	cfg.EmbeddedTemplateDir = "java"
	cfg.SourceFolder = projectFolder + "/java"
	cfg.APIDocPath = "docs"
	cfg.ModelDocPath = "docs"
	if cfg.ModelPackage == "" {
		cfg.ModelPackage = defaultInvokerPackage + ".model"
	}
	if cfg.APIPackage == "" {
		cfg.APIPackage = defaultInvokerPackage + ".api"
	}
	if cfg.Library == "" {
		cfg.Library = defaultLibrary
	}

	cfg.SetReservedWords(reservedWords...)
	for _, p := range []string{"String", "boolean", "Boolean", "Double", "Integer", "Long", "Float", "byte[]", "Object"} {
		cfg.LanguageSpecificPrimitives.Add(p)
	}
	cfg.InstantiationTypes["array"] = "ArrayList"
	cfg.InstantiationTypes["map"] = "HashMap"
	cfg.TypeMapping["date"] = "Date"
	cfg.TypeMapping["file"] = "File"

	cfg.SupportedLibraries.Set("volley", "HTTP client: Volley 1.0.19 (default)")
	cfg.SupportedLibraries.Set("httpclient", "HTTP client: Apache HttpClient 4.3.6, JSON processing: Gson 2.3.1")

	props := cfg.AdditionalProperties
	setDefault(props, "invokerPackage", defaultInvokerPackage)
	setDefault(props, "groupId", defaultGroupID)
	setDefault(props, "artifactId", defaultArtifactID)
	setDefault(props, "artifactVersion", defaultArtifactVersion)
	props["useVolley"] = cfg.Library == "volley"
	props["apiDocPath"] = cfg.APIDocPath + "/"
	props["modelDocPath"] = cfg.ModelDocPath + "/"

	cfg.ModelTemplateFiles.Set("model.mustache", ".java")
	cfg.APITemplateFiles.Set("api.mustache", ".java")
	cfg.ModelDocTemplateFiles.Set("model_doc.mustache", ".md")
	cfg.APIDocTemplateFiles.Set("api_doc.mustache", ".md")

	invokerFolder := filepath.Join(cfg.SourceFolder, packagePath(fmt.Sprint(props["invokerPackage"])))
	cfg.SupportingFiles = append(cfg.SupportingFiles,
		codegen.SupportingFile{TemplateFile: "README.mustache", DestinationFilename: "README.md"},
		codegen.SupportingFile{TemplateFile: "build.mustache", DestinationFilename: "build.gradle"},
		codegen.SupportingFile{TemplateFile: "settings.gradle.mustache", DestinationFilename: "settings.gradle"},
		codegen.SupportingFile{TemplateFile: "manifest.mustache", Folder: projectFolder, DestinationFilename: "AndroidManifest.xml"},
		codegen.SupportingFile{TemplateFile: "apiInvoker.mustache", Folder: invokerFolder, DestinationFilename: "ApiInvoker.java"},
		codegen.SupportingFile{TemplateFile: "apiException.mustache", Folder: invokerFolder, DestinationFilename: "ApiException.java"},
		codegen.SupportingFile{TemplateFile: "gitignore", DestinationFilename: ".gitignore"},
	)
	if cfg.Library == "httpclient" {
		cfg.SupportingFiles = append(cfg.SupportingFiles,
			codegen.SupportingFile{TemplateFile: "pom.mustache", DestinationFilename: "pom.xml"},
			codegen.SupportingFile{TemplateFile: "jsonUtil.mustache", Folder: invokerFolder, DestinationFilename: "JsonUtil.java"},
		)
	}
}

func setDefault(props map[string]any, key string, value any) {
	if _, ok := props[key]; !ok {
		props[key] = value
	}
}

func packagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", string(filepath.Separator))
}

func (t *Target) EscapeReservedWord(name string) string {
	return "_" + name
}

// SwaggerType keeps mapped primitives and container classes and turns
// everything else into a model class name.
func (t *Target) SwaggerType(c *codegen.Codegen, p model.Property) string {
	swaggerType := codegen.RawSwaggerType(p)
	mapped, ok := c.Config().TypeMapping[swaggerType]
	if !ok {
		return c.ToModelName(swaggerType)
	}
	if c.Config().LanguageSpecificPrimitives.Has(mapped) || strings.Contains(mapped, ".") || typeWithClass[mapped] {
		return mapped
	}
	return c.ToModelName(mapped)
}

func (t *Target) TypeDeclaration(c *codegen.Codegen, p model.Property) string {
	switch p := p.(type) {
	case *model.ArrayProperty:
		return c.SwaggerType(p) + "<" + c.TypeDeclaration(p.Items) + ">"
	case *model.MapProperty:
		return c.SwaggerType(p) + "<String, " + c.TypeDeclaration(p.AdditionalProperties) + ">"
	}
	return t.Base.TypeDeclaration(c, p)
}

func (t *Target) ToVarName(c *codegen.Codegen, name string) string {
	name = strings.ReplaceAll(naming.SanitizeName(name), "-", "_")
	if upperSnake.MatchString(name) {
		return name
	}
	name = naming.Camelize(name, true)
	if c.IsReservedWord(name) || leadingDigit.MatchString(name) {
		return t.EscapeReservedWord(name)
	}
	return name
}

func (t *Target) ToParamName(c *codegen.Codegen, name string) string {
	return t.ToVarName(c, name)
}

func (t *Target) ToModelName(c *codegen.Codegen, name string) string {
	cfg := c.Config()
	if cfg.ModelNamePrefix != "" {
		name = cfg.ModelNamePrefix + "_" + name
	}
	if cfg.ModelNameSuffix != "" {
		name = name + "_" + cfg.ModelNameSuffix
	}
	if strings.ToUpper(name) == name {
		return name
	}
	name = naming.Camelize(naming.SanitizeName(name), false)
	if c.IsReservedWord(name) || leadingDigit.MatchString(name) {
		renamed := "Model" + name
		c.Logger().Warn("model name cannot be used, renamed", "name", name, "renamed", renamed)
		return renamed
	}
	return name
}

func (t *Target) ToModelFilename(c *codegen.Codegen, name string) string {
	return t.ToModelName(c, name)
}

func (t *Target) ToOperationID(c *codegen.Codegen, id string) string {
	id = naming.Camelize(naming.SanitizeName(id), true)
	if c.IsReservedWord(id) {
		renamed := naming.Camelize("call_"+id, true)
		c.Logger().Warn("operationId is a reserved word, renamed", "operationId", id, "renamed", renamed)
		return renamed
	}
	return id
}

// ParameterExample renders the example of p as a Java expression.
func (t *Target) ParameterExample(c *codegen.Codegen, p *codegen.Parameter) {
	example := p.Example
	if p.DefaultValue != "" {
		example = p.DefaultValue
	}
	typ := p.BaseType
	if typ == "" {
		typ = p.DataType
	}
	orDefault := func(def string) string {
		if example == "" {
			return def
		}
		return example
	}
	switch typ {
	case "String":
		example = `"` + c.EscapeText(orDefault(p.ParamName+"_example")) + `"`
	case "Integer", "Short":
		example = orDefault("56")
	case "Long":
		example = orDefault("56") + "L"
	case "Float":
		example = orDefault("3.4") + "F"
	case "Double":
		example = orDefault("3.4") + "D"
	case "Boolean":
		example = orDefault("true")
	case "File":
		example = `new File("` + c.EscapeText(orDefault("/path/to/file")) + `")`
	case "Date":
		example = "new Date()"
	default:
		if !c.Config().LanguageSpecificPrimitives.Has(typ) {
			example = "new " + typ + "()"
		}
	}
	switch {
	case example == "":
		example = "null"
	case p.IsListContainer:
		example = "Arrays.asList(" + example + ")"
	case p.IsMapContainer:
		example = "new HashMap()"
	}
	p.Example = example
}
