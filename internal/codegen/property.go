package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
)

// FromProperty builds the IR of property p declared under name. It returns
// nil when p is nil.
func (c *Codegen) FromProperty(name string, p model.Property) *Property {
	if p == nil {
		c.logger.Error("unexpected missing property", "name", name)
		return nil
	}
	base := p.PropertyCommon()
	kind := KindOf(p)
	prop := &Property{
		BaseName:              name,
		Name:                  c.ToVarName(name),
		Title:                 base.Title,
		Description:           c.EscapeText(base.Description),
		UnescapedDescription:  base.Description,
		Getter:                "get" + c.accessorSuffix(name),
		Setter:                "set" + c.accessorSuffix(name),
		Example:               stringify(base.Example),
		DefaultValue:          stringify(base.Default),
		DefaultValueWithParam: " = data." + name + ";",
		JSONSchema:            prettyJSON(p),
		ReadOnly:              base.ReadOnly,
		Required:              base.Required,
		VendorExtensions:      base.VendorExtensions,
		Validation:            validationOf(base.Constraints),
	}
	prop.NameInCamelCase = naming.Camelize(prop.Name, false)
	prop.HasValidation = prop.Validation.any()

	allowable := &AllowableValues{}
	if kind.isNumeric() {
		allowable.Min = base.Minimum
		allowable.Max = base.Maximum
	}
	setKindFlags(prop, kind)
	if len(base.Enum) > 0 {
		prop.Enum = base.Enum
		prop.IsEnum = true
		allowable.Values = base.Enum
	}
	if !allowable.empty() {
		prop.AllowableValues = allowable
	}

	prop.Datatype = c.TypeDeclaration(p)
	if prim, ok := p.(*model.PrimitiveProperty); ok {
		prop.DataFormat = prim.Format
	}
	if prop.IsEnum {
		prop.DatatypeWithEnum = c.ToEnumName(prop)
		prop.EnumName = prop.DatatypeWithEnum
	} else {
		prop.DatatypeWithEnum = prop.Datatype
	}

	typ := c.SwaggerType(p)
	prop.BaseType = typ
	switch p := p.(type) {
	case *model.ArrayProperty:
		prop.IsContainer = true
		prop.IsListContainer = true
		prop.ContainerType = "array"
		c.updatePropertyForArray(prop, c.FromProperty(prop.Name, p.Items))
	case *model.MapProperty:
		prop.IsContainer = true
		prop.IsMapContainer = true
		prop.ContainerType = "map"
		c.updatePropertyForMap(prop, c.FromProperty("inner", p.AdditionalProperties))
	default:
		prop.IsNotContainer = true
		if c.isPrimitive(typ) {
			prop.IsPrimitiveType = true
		} else {
			prop.ComplexType = prop.BaseType
		}
	}
	return prop
}

func setKindFlags(prop *Property, kind Kind) {
	switch kind {
	case KindString, KindBigDecimal:
		prop.IsString = true
	case KindUUID:
		prop.IsString = true
		prop.IsUUID = true
	case KindInteger:
		prop.IsInteger = true
	case KindLong:
		prop.IsLong = true
	case KindBoolean:
		prop.IsBoolean = true
	case KindBinary:
		prop.IsBinary = true
	case KindByteArray:
		prop.IsByteArray = true
	case KindDecimal, KindFloat:
		prop.IsFloat = true
	case KindDouble:
		prop.IsDouble = true
	case KindDate:
		prop.IsDate = true
	case KindDateTime:
		prop.IsDateTime = true
	case KindFile:
		prop.IsFile = true
	}
}

func (c *Codegen) accessorSuffix(name string) string {
	if name == "" {
		return name
	}
	return naming.Camelize(c.ToVarName(name), false)
}

func (c *Codegen) updatePropertyForArray(prop, inner *Property) {
	if inner == nil {
		c.logger.Warn("skipping invalid array property", "property", prop.BaseName)
		return
	}
	if !c.isPrimitive(inner.BaseType) {
		prop.ComplexType = inner.BaseType
	} else {
		prop.IsPrimitiveType = true
		prop.BaseType = inner.BaseType
	}
	prop.Items = inner
	c.propagateInnerEnum(prop)
}

func (c *Codegen) updatePropertyForMap(prop, inner *Property) {
	if inner == nil {
		c.logger.Warn("skipping invalid map property", "property", prop.BaseName)
		return
	}
	if !c.isPrimitive(inner.BaseType) {
		prop.ComplexType = inner.BaseType
	} else {
		prop.IsPrimitiveType = true
	}
	prop.Items = inner
	c.propagateInnerEnum(prop)
}

// innermost follows Items through nested containers.
func innermost(prop *Property) *Property {
	cur := prop
	for cur != nil && (cur.IsListContainer || cur.IsMapContainer) && cur.Items != nil {
		cur = cur.Items
	}
	return cur
}

// propagateInnerEnum marks a container whose innermost element is an enum
// and substitutes the element's enum type into the container datatype.
func (c *Codegen) propagateInnerEnum(prop *Property) {
	inner := innermost(prop)
	if inner == nil || inner == prop || !inner.IsEnum {
		return
	}
	prop.IsEnum = true
	enumType := c.ToEnumName(inner)
	prop.DatatypeWithEnum = replaceLast(prop.DatatypeWithEnum, inner.BaseType, enumType)
	prop.EnumName = c.ToEnumName(prop)
	if prop.DefaultValue != "" {
		prop.DefaultValue = replaceLast(prop.DefaultValue, inner.BaseType, enumType)
	}
	prop.AllowableValues = inner.AllowableValues
}

// replaceLast substitutes the last occurrence of old, which is where the
// element type sits in both "List<String>" and "map[string]string".
func replaceLast(s, old, repl string) string {
	if old == "" {
		return s
	}
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}

// stringify renders a decoded document value as template text.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int64, float64, float32, int32, uint64:
		return fmt.Sprint(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
