package codegen

import (
	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
)

// Language supplies the target-specific parts of IR building. Embed Base
// to inherit the defaults and override what the target needs.
type Language interface {
	Name() string
	Help() string
	// Configure fills target defaults into cfg. Fields the user already set
	// must be left alone.
	Configure(cfg *Config)

	SwaggerType(c *Codegen, p model.Property) string
	TypeDeclaration(c *Codegen, p model.Property) string

	ToModelName(c *Codegen, name string) string
	ToModelFilename(c *Codegen, name string) string
	ToAPIFilename(c *Codegen, tag string) string
	ToVarName(c *Codegen, name string) string
	ToParamName(c *Codegen, name string) string
	ToOperationID(c *Codegen, id string) string

	EscapeReservedWord(name string) string
	// EscapeUnsafeCharacters runs after the Java-style escaping of
	// EscapeText.
	EscapeUnsafeCharacters(s string) string
	// ParameterExample may rewrite the example of a built parameter.
	ParameterExample(c *Codegen, p *Parameter)
	PostProcessFile(path string, content []byte) ([]byte, error)
}

// Base implements every Language hook except Name, Help and Configure.
type Base struct{}

func (Base) SwaggerType(c *Codegen, p model.Property) string {
	return RawSwaggerType(p)
}

func (Base) TypeDeclaration(c *Codegen, p model.Property) string {
	t := c.SwaggerType(p)
	if mapped, ok := c.cfg.TypeMapping[t]; ok {
		return mapped
	}
	return t
}

func (Base) ToModelName(c *Codegen, name string) string {
	return naming.InitialCaps(c.cfg.ModelNamePrefix + name + c.cfg.ModelNameSuffix)
}

func (Base) ToModelFilename(c *Codegen, name string) string {
	return naming.InitialCaps(name)
}

func (Base) ToAPIFilename(c *Codegen, tag string) string {
	return c.ToAPIName(tag)
}

func (Base) ToVarName(c *Codegen, name string) string {
	if c.cfg.IsReservedWord(name) {
		return c.lang.EscapeReservedWord(name)
	}
	return name
}

func (Base) ToParamName(c *Codegen, name string) string {
	name = naming.RemoveNonNameElementToCamelCase(name)
	if c.cfg.IsReservedWord(name) {
		return c.lang.EscapeReservedWord(name)
	}
	return name
}

func (Base) ToOperationID(c *Codegen, id string) string {
	return id
}

func (Base) EscapeReservedWord(name string) string {
	return "_" + name
}

func (Base) EscapeUnsafeCharacters(s string) string {
	return s
}

func (Base) ParameterExample(c *Codegen, p *Parameter) {}

func (Base) PostProcessFile(path string, content []byte) ([]byte, error) {
	return content, nil
}
