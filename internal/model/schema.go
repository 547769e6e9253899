package model

import (
	"github.com/kolah/apigen/internal/ordered"
)

// Model is a top-level or body schema. The set of implementations is
// closed: *ModelImpl, *ArrayModel, *RefModel and *ComposedModel.
type Model interface {
	ModelCommon() *ModelBase
	isModel()
}

type ModelBase struct {
	Title            string         `json:"title,omitempty"`
	Description      string         `json:"description,omitempty"`
	Example          any            `json:"example,omitempty"`
	ExternalDocs     *ExternalDocs  `json:"externalDocs,omitempty"`
	VendorExtensions map[string]any `json:"vendorExtensions,omitempty"`
}

func (b *ModelBase) ModelCommon() *ModelBase { return b }

// ModelImpl is an object (or primitive/enum) schema with its own properties.
type ModelImpl struct {
	ModelBase
	Type                 string                        `json:"type,omitempty"`
	Format               string                        `json:"format,omitempty"`
	Properties           *ordered.Map[string, Property] `json:"properties,omitempty"`
	Required             []string                      `json:"required,omitempty"`
	Enum                 []any                         `json:"enum,omitempty"`
	Default              any                           `json:"default,omitempty"`
	AdditionalProperties Property                      `json:"additionalProperties,omitempty"`
	Discriminator        string                        `json:"discriminator,omitempty"`
	XML                  *XML                          `json:"xml,omitempty"`
}

// ArrayModel is a top-level array schema.
type ArrayModel struct {
	ModelBase
	Items       Property `json:"items,omitempty"`
	MinItems    *int64   `json:"minItems,omitempty"`
	MaxItems    *int64   `json:"maxItems,omitempty"`
	UniqueItems bool     `json:"uniqueItems,omitempty"`
}

// RefModel points at a definition.
type RefModel struct {
	ModelBase
	Ref string `json:"$ref"`
}

func NewRefModel(name string) *RefModel {
	return &RefModel{Ref: DefinitionRef(name)}
}

func (m *RefModel) SimpleRef() string { return SimpleRef(m.Ref) }

// ComposedModel is an allOf schema. Parent is the first component, Child the
// last and Interfaces the references in between.
type ComposedModel struct {
	ModelBase
	AllOf      []Model     `json:"allOf"`
	Parent     Model       `json:"-"`
	Child      Model       `json:"-"`
	Interfaces []*RefModel `json:"-"`
}

// NewComposedModel splits allOf into parent, interfaces and child.
func NewComposedModel(allOf []Model) *ComposedModel {
	m := &ComposedModel{AllOf: allOf}
	if len(allOf) == 0 {
		return m
	}
	m.Parent = allOf[0]
	if len(allOf) == 1 {
		m.Child = &ModelImpl{}
		return m
	}
	m.Child = allOf[len(allOf)-1]
	for _, c := range allOf[1 : len(allOf)-1] {
		if ref, ok := c.(*RefModel); ok {
			m.Interfaces = append(m.Interfaces, ref)
		}
	}
	return m
}

func (*ModelImpl) isModel()     {}
func (*ArrayModel) isModel()    {}
func (*RefModel) isModel()      {}
func (*ComposedModel) isModel() {}

type XML struct {
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Attribute bool   `json:"attribute,omitempty"`
	Wrapped   bool   `json:"wrapped,omitempty"`
}

// Constraints are the validation keywords shared by properties and
// parameters.
type Constraints struct {
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	MinLength        *int64   `json:"minLength,omitempty"`
	MaxLength        *int64   `json:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	MinItems         *int64   `json:"minItems,omitempty"`
	MaxItems         *int64   `json:"maxItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
}

// HasNumericBounds reports whether any of minimum/maximum is set.
func (c Constraints) HasNumericBounds() bool {
	return c.Minimum != nil || c.Maximum != nil || c.ExclusiveMinimum || c.ExclusiveMaximum
}

// HasStringBounds reports whether any of minLength/maxLength/pattern is set.
func (c Constraints) HasStringBounds() bool {
	return c.MinLength != nil || c.MaxLength != nil || c.Pattern != ""
}

// HasItemBounds reports whether any of minItems/maxItems/uniqueItems is set.
func (c Constraints) HasItemBounds() bool {
	return c.MinItems != nil || c.MaxItems != nil || c.UniqueItems
}

// Property is a nested schema. The set of implementations is closed:
// *PrimitiveProperty, *ArrayProperty, *MapProperty, *ObjectProperty and
// *RefProperty.
type Property interface {
	PropertyCommon() *PropertyBase
	isProperty()
}

type PropertyBase struct {
	Name             string         `json:"-"`
	Title            string         `json:"title,omitempty"`
	Description      string         `json:"description,omitempty"`
	Example          any            `json:"example,omitempty"`
	Default          any            `json:"default,omitempty"`
	ReadOnly         bool           `json:"readOnly,omitempty"`
	Required         bool           `json:"-"`
	Enum             []any          `json:"enum,omitempty"`
	XML              *XML           `json:"xml,omitempty"`
	VendorExtensions map[string]any `json:"vendorExtensions,omitempty"`
	Constraints
}

func (b *PropertyBase) PropertyCommon() *PropertyBase { return b }

// Primitive type names.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeFile    = "file"
	TypeObject  = "object"
	TypeArray   = "array"
)

// PrimitiveProperty covers every scalar schema, distinguished by Type and
// Format (e.g. integer/int64, string/date-time, string/uuid).
type PrimitiveProperty struct {
	PropertyBase
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

type ArrayProperty struct {
	PropertyBase
	Items Property `json:"items"`
}

// MapProperty is an object whose values are described by
// AdditionalProperties.
type MapProperty struct {
	PropertyBase
	AdditionalProperties Property `json:"additionalProperties"`
}

// ObjectProperty is an inline object schema.
type ObjectProperty struct {
	PropertyBase
	Properties         *ordered.Map[string, Property] `json:"properties,omitempty"`
	RequiredProperties []string                      `json:"required,omitempty"`
}

type RefProperty struct {
	PropertyBase
	Ref string `json:"$ref"`
}

func NewRefProperty(name string) *RefProperty {
	return &RefProperty{Ref: DefinitionRef(name)}
}

func (p *RefProperty) SimpleRef() string { return SimpleRef(p.Ref) }

func (*PrimitiveProperty) isProperty() {}
func (*ArrayProperty) isProperty()     {}
func (*MapProperty) isProperty()       {}
func (*ObjectProperty) isProperty()    {}
func (*RefProperty) isProperty()       {}

// HasProperties reports whether p is an inline object with at least one
// property of its own.
func HasProperties(p Property) bool {
	obj, ok := p.(*ObjectProperty)
	return ok && obj.Properties.Len() > 0
}
