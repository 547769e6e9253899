package codegen

import (
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

const placeholderNote = "automatically added by apigen"

// placeholder stands in for a missing or unsupported parameter type.
func placeholder(note string) model.Property {
	return &model.PrimitiveProperty{
		PropertyBase: model.PropertyBase{Description: note},
		Type:         model.TypeString,
	}
}

// FromParameter builds the IR of one parameter. Types referenced by the
// parameter are added to imports. A body parameter without a schema is a
// structural error; other unusable types fall back to string.
func (c *Codegen) FromParameter(param *model.Parameter, imports *ordered.Set[string]) (*Parameter, error) {
	p := &Parameter{
		BaseName:             param.Name,
		Description:          c.EscapeText(param.Description),
		UnescapedDescription: param.Description,
		Required:             param.Required,
		JSONSchema:           prettyJSON(param),
		VendorExtensions:     param.VendorExtensions,
	}
	switch param.In {
	case model.InQuery, model.InHeader, model.InFormData:
		p.DefaultValue = stringify(param.Default)
	}

	if param.Serializable() {
		c.fromSerializable(p, param, imports)
	} else if err := c.fromBody(p, param, imports); err != nil {
		return nil, err
	}
	if p.DatatypeWithEnum == "" {
		p.DatatypeWithEnum = p.DataType
	}

	c.setExample(p, param)
	c.lang.ParameterExample(c, p)

	switch param.In {
	case model.InQuery:
		p.IsQueryParam = true
	case model.InPath:
		p.Required = true
		p.IsPathParam = true
	case model.InHeader:
		p.IsHeaderParam = true
	case model.InCookie:
		p.IsCookieParam = true
	case model.InBody:
		p.IsBodyParam = true
		p.IsBinary = isBinaryType(p.DataType)
	case model.InFormData:
		if isFileParam(param, p) {
			p.IsFile = true
		} else {
			p.NotFile = true
		}
		p.IsFormParam = true
	}
	return p, nil
}

func isFileParam(param *model.Parameter, p *Parameter) bool {
	return strings.EqualFold(param.Type, model.TypeFile) || p.BaseType == model.TypeFile
}

func (c *Codegen) fromSerializable(p *Parameter, param *model.Parameter, imports *ordered.Set[string]) {
	var prop model.Property
	var collectionFormat string
	switch param.Type {
	case model.TypeArray:
		inner := param.Items
		if inner == nil {
			c.logger.Warn("no inner type supplied for array parameter, using string", "param", param.Name)
			inner = placeholder(placeholderNote)
		}
		arr := &model.ArrayProperty{Items: inner}
		prop = arr
		collectionFormat = param.CollectionFormat
		if collectionFormat == "" {
			collectionFormat = "csv"
		}
		if pr := c.FromProperty("inner", arr); pr != nil {
			p.BaseType = pr.BaseType
			imports.Add(pr.BaseType)
		}
		p.IsContainer = true
		p.IsListContainer = true
	case model.TypeObject:
		inner := param.Items
		if inner == nil {
			c.logger.Warn("no inner type supplied for map parameter, using string", "param", param.Name)
			inner = placeholder(placeholderNote)
		}
		prop = &model.MapProperty{AdditionalProperties: inner}
		collectionFormat = param.CollectionFormat
		if pr := c.FromProperty("inner", inner); pr != nil {
			p.BaseType = pr.Datatype
			imports.Add(pr.BaseType)
		}
		p.IsContainer = true
		p.IsMapContainer = true
	default:
		if primitiveKind(param.Type, param.Format) == KindOther {
			c.logger.Warn("unsupported parameter type, using string", "param", param.Name, "type", param.Type)
			prop = placeholder(placeholderNote + ", type was " + param.Type)
		} else {
			prop = &model.PrimitiveProperty{
				PropertyBase: model.PropertyBase{Enum: param.Enum},
				Type:         param.Type,
				Format:       param.Format,
			}
		}
	}
	prop.PropertyCommon().Required = param.Required

	cp := c.FromProperty(param.Name, prop)
	setParameterFlags(p, cp)
	p.DataType = cp.Datatype
	p.DataFormat = cp.DataFormat
	if cp.IsEnum {
		p.DatatypeWithEnum = cp.DatatypeWithEnum
	}
	c.UpdatePropertyEnum(cp)
	p.IsEnum = cp.IsEnum
	p.Enum = cp.Enum
	p.AllowableValues = cp.AllowableValues
	if cp.Items != nil && cp.Items.IsEnum {
		p.DatatypeWithEnum = cp.DatatypeWithEnum
		p.Items = cp.Items
	}
	p.CollectionFormat = collectionFormat
	p.IsCollectionFormatMulti = collectionFormat == "multi"
	p.ParamName = c.ToParamName(param.Name)
	if cp.ComplexType != "" {
		imports.Add(cp.ComplexType)
	}
	p.Validation = validationOf(param.Constraints)
	p.HasValidation = p.Validation.any()
}

func (c *Codegen) fromBody(p *Parameter, param *model.Parameter, imports *ordered.Set[string]) error {
	switch s := param.Schema.(type) {
	case nil:
		return structural("parameter", param.Name, "body parameter has no schema")
	case *model.ModelImpl:
		cm := c.FromModel(param.Name, s, nil)
		if !cm.EmptyVars {
			p.DataType = c.TypeDeclarationOf(cm.Classname)
			imports.Add(p.DataType)
			break
		}
		typ := s.Type
		if typ == "" {
			typ = model.TypeObject
		}
		prop := PropertyFor(typ, s.Format)
		prop.PropertyCommon().Required = param.Required
		cp := c.FromProperty("property", prop)
		p.BaseType = cp.BaseType
		p.DataType = cp.Datatype
		p.IsPrimitiveType = cp.IsPrimitiveType
		p.IsBinary = isBinaryType(cp.Datatype)
		setParameterFlags(p, cp)
	case *model.ArrayModel:
		ap := &model.ArrayProperty{
			PropertyBase: model.PropertyBase{Required: param.Required},
			Items:        s.Items,
		}
		cp := c.FromProperty("inner", ap)
		if cp.ComplexType != "" {
			imports.Add(cp.ComplexType)
		}
		imports.Add(cp.BaseType)
		p.DataType = cp.Datatype
		p.BaseType = cp.ComplexType
		if p.BaseType == "" {
			p.BaseType = cp.BaseType
		}
		p.IsPrimitiveType = cp.IsPrimitiveType
		p.IsContainer = true
		p.IsListContainer = true
		setParameterFlags(p, cp)
	case *model.RefModel:
		name := s.SimpleRef()
		if mapped, ok := c.cfg.TypeMapping[name]; ok {
			name = mapped
		} else {
			name = c.ToModelName(name)
			imports.Add(name)
			name = c.TypeDeclarationOf(name)
		}
		p.DataType = name
		p.BaseType = name
	case *model.ComposedModel:
		c.logger.Warn("inline composed body schema, using object", "param", param.Name)
		p.DataType = c.TypeDeclarationOf(model.TypeObject)
		p.BaseType = p.DataType
	}
	p.ParamName = c.ToParamName(param.Name)
	return nil
}

func (c *Codegen) setExample(p *Parameter, param *model.Parameter) {
	if ex, ok := param.VendorExtensions["x-example"]; ok {
		p.Example = stringify(ex)
		return
	}
	switch {
	case p.IsString:
		p.Example = p.ParamName + "_example"
	case p.IsBoolean:
		p.Example = "true"
	case p.IsLong:
		p.Example = "789"
	case p.IsInteger:
		p.Example = "56"
	case p.IsFloat:
		p.Example = "3.4"
	case p.IsDouble:
		p.Example = "1.2"
	case p.IsBinary:
		p.Example = "BINARY_DATA_HERE"
	case p.IsByteArray:
		p.Example = "B"
	case p.IsDate:
		p.Example = "2013-10-20"
	case p.IsDateTime:
		p.Example = "2013-10-20T19:20:30+01:00"
	case param.In == model.InFormData && isFileParam(param, p):
		p.IsFile = true
		p.Example = "/path/to/file.txt"
	}
}

// setParameterFlags copies the semantic type flags of cp, and of its
// items for arrays, onto p.
func setParameterFlags(p *Parameter, cp *Property) {
	if cp == nil {
		return
	}
	switch {
	case cp.IsString:
		p.IsString = true
	case cp.IsBoolean:
		p.IsBoolean = true
	case cp.IsLong:
		p.IsLong = true
	case cp.IsInteger:
		p.IsInteger = true
	case cp.IsDouble:
		p.IsDouble = true
	case cp.IsFloat:
		p.IsFloat = true
	case cp.IsByteArray, cp.IsBinary:
		p.IsByteArray = true
	case cp.IsDate:
		p.IsDate = true
	case cp.IsDateTime:
		p.IsDateTime = true
	default:
		if cp.IsListContainer && cp.Items != nil {
			setItemFlags(p, cp.Items)
		}
		return
	}
	p.IsPrimitiveType = true
	if cp.IsListContainer && cp.Items != nil {
		setItemFlags(p, cp.Items)
	}
}

func setItemFlags(p *Parameter, item *Property) {
	switch {
	case item.IsString:
		p.IsItemString = true
	case item.IsBoolean:
		p.IsItemBoolean = true
	case item.IsLong:
		p.IsItemLong = true
	case item.IsInteger:
		p.IsItemInteger = true
	case item.IsDouble:
		p.IsItemDouble = true
	case item.IsFloat:
		p.IsItemFloat = true
	case item.IsByteArray, item.IsBinary:
		p.IsItemByteArray = true
	case item.IsDate:
		p.IsItemDate = true
	case item.IsDateTime:
		p.IsItemDateTime = true
	}
}
