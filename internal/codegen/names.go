package codegen

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
)

func (c *Codegen) ToModelName(name string) string     { return c.lang.ToModelName(c, name) }
func (c *Codegen) ToModelFilename(name string) string { return c.lang.ToModelFilename(c, name) }
func (c *Codegen) ToAPIFilename(tag string) string    { return c.lang.ToAPIFilename(c, tag) }
func (c *Codegen) ToVarName(name string) string       { return c.lang.ToVarName(c, name) }
func (c *Codegen) ToParamName(name string) string     { return c.lang.ToParamName(c, name) }

// ToOperationID applies the target's operation naming. An id that is
// empty before or after naming is a structural error.
func (c *Codegen) ToOperationID(id string) (string, error) {
	if id == "" {
		return "", structural("operation", "", "empty method name (operationId) not allowed")
	}
	out := c.lang.ToOperationID(c, id)
	if out == "" {
		return "", structural("operation", id, "empty method name (operationId) not allowed")
	}
	return out, nil
}

// ToAPIName returns "DefaultApi" for the empty tag and "<Tag>Api"
// otherwise.
func (c *Codegen) ToAPIName(tag string) string {
	if tag == "" {
		return "DefaultApi"
	}
	return naming.InitialCaps(tag) + "Api"
}

func (c *Codegen) ToAPIVarName(tag string) string {
	return naming.LowerFirst(c.ToAPIName(tag))
}

func (c *Codegen) ToAPITestFilename(tag string) string { return c.ToAPIName(tag) + "Test" }
func (c *Codegen) ToAPIDocFilename(tag string) string  { return c.ToAPIName(tag) }
func (c *Codegen) ToModelTestFilename(name string) string {
	return naming.InitialCaps(name) + "Test"
}
func (c *Codegen) ToModelDocFilename(name string) string { return naming.InitialCaps(name) }

// ToModelImport qualifies a model name with the model package.
func (c *Codegen) ToModelImport(name string) string {
	if c.cfg.ModelPackage == "" {
		return name
	}
	return c.cfg.ModelPackage + "." + name
}

func (c *Codegen) ToAPIImport(name string) string {
	return c.cfg.APIPackage + "." + name
}

func (c *Codegen) ToEnumName(p *Property) string {
	return naming.InitialCaps(p.Name) + "Enum"
}

var nonWordRuns = regexp.MustCompile(`\W+`)

// ToEnumVarName turns an enum value into a constant name: non-word runs
// become "_", the result is upper-cased and prefixed with "_" when it
// starts with a digit.
func (c *Codegen) ToEnumVarName(value, datatype string) string {
	v := strings.ToUpper(nonWordRuns.ReplaceAllString(value, "_"))
	if v != "" && v[0] >= '0' && v[0] <= '9' {
		return "_" + v
	}
	return v
}

// ToEnumValue renders an enum value as a literal of datatype.
func (c *Codegen) ToEnumValue(value, datatype string) string {
	if strings.EqualFold(datatype, "number") {
		return value
	}
	return `"` + c.EscapeText(value) + `"`
}

func (c *Codegen) ToEnumDefaultValue(value, datatype string) string {
	return datatype + "." + value
}

// EscapeText escapes s for use inside a generated string literal.
func (c *Codegen) EscapeText(s string) string {
	if s == "" {
		return s
	}
	return c.lang.EscapeUnsafeCharacters(naming.EscapeJava(s))
}

func (c *Codegen) EscapeQuotationMark(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

func (c *Codegen) IsReservedWord(word string) bool {
	return c.cfg.IsReservedWord(word)
}

func packagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", string(filepath.Separator))
}

func (c *Codegen) APIFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.cfg.SourceFolder, packagePath(c.cfg.APIPackage))
}

func (c *Codegen) ModelFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.cfg.SourceFolder, packagePath(c.cfg.ModelPackage))
}

func (c *Codegen) APITestFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.testFolder(), packagePath(c.cfg.APIPackage))
}

func (c *Codegen) ModelTestFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.testFolder(), packagePath(c.cfg.ModelPackage))
}

func (c *Codegen) testFolder() string {
	if c.cfg.TestFolder != "" {
		return c.cfg.TestFolder
	}
	return c.cfg.SourceFolder
}

func (c *Codegen) APIDocFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.cfg.APIDocPath)
}

func (c *Codegen) ModelDocFileFolder() string {
	return filepath.Join(c.cfg.OutputDir, c.cfg.ModelDocPath)
}

// GenerateOperationID builds an id like "petsPetIdPhotosGet" for an
// operation declared without one.
func (c *Codegen) GenerateOperationID(path string, method model.Method) string {
	tmp := strings.NewReplacer("{", "", "}", "").Replace(path)
	var b strings.Builder
	if tmp == "/" {
		b.WriteString("root")
	}
	for _, part := range strings.Split(tmp+"/"+string(method), "/") {
		if part == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(naming.LowerFirst(part))
		} else {
			b.WriteString(naming.InitialCaps(part))
		}
	}
	return naming.SanitizeName(b.String())
}
