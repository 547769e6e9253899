package codegen

import (
	"github.com/kolah/apigen/internal/model"
)

// Kind is the semantic type of a property, derived from its type and
// format.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindBigDecimal
	KindByteArray
	KindBinary
	KindBoolean
	KindDate
	KindDateTime
	KindDouble
	KindFloat
	KindInteger
	KindLong
	KindMap
	KindDecimal
	KindUUID
	KindRef
	KindArray
	KindObject
	KindFile
)

// KindOf classifies p. Formats only refine the type they belong to, so
// {type: integer, format: date} is still an integer.
func KindOf(p model.Property) Kind {
	switch p := p.(type) {
	case *model.PrimitiveProperty:
		return primitiveKind(p.Type, p.Format)
	case *model.ArrayProperty:
		return KindArray
	case *model.MapProperty:
		return KindMap
	case *model.ObjectProperty:
		return KindObject
	case *model.RefProperty:
		return KindRef
	}
	return KindOther
}

func primitiveKind(typ, format string) Kind {
	switch typ {
	case model.TypeString:
		switch format {
		case "number":
			return KindBigDecimal
		case "byte":
			return KindByteArray
		case "binary":
			return KindBinary
		case "date":
			return KindDate
		case "date-time":
			return KindDateTime
		case "uuid":
			return KindUUID
		}
		return KindString
	case model.TypeBoolean:
		return KindBoolean
	case model.TypeInteger:
		if format == "int64" {
			return KindLong
		}
		return KindInteger
	case model.TypeNumber:
		switch format {
		case "double":
			return KindDouble
		case "float":
			return KindFloat
		}
		return KindDecimal
	case model.TypeFile:
		return KindFile
	case model.TypeObject:
		return KindObject
	case model.TypeArray:
		return KindArray
	}
	return KindOther
}

func (k Kind) isNumeric() bool {
	switch k {
	case KindInteger, KindLong, KindFloat, KindDouble, KindDecimal:
		return true
	}
	return false
}

// RawSwaggerType returns the language-neutral type name of p before any
// type mapping is applied.
func RawSwaggerType(p model.Property) string {
	switch KindOf(p) {
	case KindBigDecimal:
		return "BigDecimal"
	case KindString:
		return "string"
	case KindByteArray:
		return "ByteArray"
	case KindBinary:
		return "binary"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindDateTime:
		return "DateTime"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindLong:
		return "long"
	case KindMap:
		return "map"
	case KindDecimal:
		return "number"
	case KindUUID:
		return "UUID"
	case KindRef:
		return p.(*model.RefProperty).SimpleRef()
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFile:
		return "file"
	}
	if prim, ok := p.(*model.PrimitiveProperty); ok {
		return prim.Type
	}
	return ""
}

// PropertyFor builds a bare property for a type/format pair, as found on
// non-body parameters and enum models.
func PropertyFor(typ, format string) model.Property {
	if typ == "" {
		return nil
	}
	return &model.PrimitiveProperty{Type: typ, Format: format}
}

func (c *Codegen) SwaggerType(p model.Property) string {
	if p == nil {
		return ""
	}
	return c.lang.SwaggerType(c, p)
}

func (c *Codegen) TypeDeclaration(p model.Property) string {
	if p == nil {
		return ""
	}
	return c.lang.TypeDeclaration(c, p)
}

// TypeDeclarationOf maps a plain type name through the type mapping.
func (c *Codegen) TypeDeclarationOf(name string) string {
	if mapped, ok := c.cfg.TypeMapping[name]; ok {
		return mapped
	}
	return name
}

// InstantiationType is the concrete container type used to create p, e.g.
// "HashMap<String, Pet>". It is empty for non-containers.
func (c *Codegen) InstantiationType(p model.Property) string {
	switch p := p.(type) {
	case *model.MapProperty:
		if p.AdditionalProperties == nil {
			c.logger.Error("no type defined for additional properties", "property", p.Name)
		}
		return c.cfg.InstantiationTypes["map"] + "<String, " + c.SwaggerType(p.AdditionalProperties) + ">"
	case *model.ArrayProperty:
		return c.cfg.InstantiationTypes["array"] + "<" + c.SwaggerType(p.Items) + ">"
	}
	return ""
}

// NeedToImport reports whether type t is neither a default include nor a
// language primitive.
func (c *Codegen) NeedToImport(t string) bool {
	return t != "" && !c.cfg.DefaultIncludes.Has(t) && !c.cfg.LanguageSpecificPrimitives.Has(t)
}

func (c *Codegen) isPrimitive(t string) bool {
	return c.cfg.LanguageSpecificPrimitives.Has(t)
}
