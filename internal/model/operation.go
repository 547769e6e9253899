package model

import (
	"github.com/kolah/apigen/internal/ordered"
)

type Method string

const (
	MethodGet     Method = "get"
	MethodHead    Method = "head"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodPatch   Method = "patch"
	MethodOptions Method = "options"
)

// Methods lists HTTP methods in the order operations are processed.
var Methods = []Method{MethodGet, MethodHead, MethodPut, MethodPost, MethodDelete, MethodPatch, MethodOptions}

type Path struct {
	Get        *Operation
	Head       *Operation
	Put        *Operation
	Post       *Operation
	Delete     *Operation
	Patch      *Operation
	Options    *Operation
	Parameters []*Parameter
}

// Operation returns the operation bound to method, or nil.
func (p *Path) Operation(method Method) *Operation {
	switch method {
	case MethodGet:
		return p.Get
	case MethodHead:
		return p.Head
	case MethodPut:
		return p.Put
	case MethodPost:
		return p.Post
	case MethodDelete:
		return p.Delete
	case MethodPatch:
		return p.Patch
	case MethodOptions:
		return p.Options
	}
	return nil
}

// SetOperation binds op to method.
func (p *Path) SetOperation(method Method, op *Operation) {
	switch method {
	case MethodGet:
		p.Get = op
	case MethodHead:
		p.Head = op
	case MethodPut:
		p.Put = op
	case MethodPost:
		p.Post = op
	case MethodDelete:
		p.Delete = op
	case MethodPatch:
		p.Patch = op
	case MethodOptions:
		p.Options = op
	}
}

// Operations returns the non-nil operations in processing order.
func (p *Path) Operations() []*Operation {
	var ops []*Operation
	for _, m := range Methods {
		if op := p.Operation(m); op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

type Operation struct {
	Tags         []string
	Summary      string
	Description  string
	OperationID  string
	Consumes     []string
	Produces     []string
	Schemes      []string
	Parameters   []*Parameter
	Responses    *ordered.Map[string, *Response]
	Deprecated   bool
	ExternalDocs *ExternalDocs
	// Security is nil when the operation inherits the document requirement.
	Security         []SecurityRequirement
	VendorExtensions map[string]any
}

type ParameterLocation string

const (
	InPath     ParameterLocation = "path"
	InQuery    ParameterLocation = "query"
	InHeader   ParameterLocation = "header"
	InFormData ParameterLocation = "formData"
	InCookie   ParameterLocation = "cookie"
	InBody     ParameterLocation = "body"
)

// Parameter is a path/query/header/form/cookie parameter described by
// Type/Format/Items, or a body parameter described by Schema.
type Parameter struct {
	Name             string
	In               ParameterLocation
	Description      string
	Required         bool
	Schema           Model
	Type             string
	Format           string
	Items            Property
	CollectionFormat string
	Default          any
	Enum             []any
	AllowEmptyValue  bool
	VendorExtensions map[string]any
	Constraints
}

// ID identifies a parameter within an operation.
func (p *Parameter) ID() string {
	return string(p.In) + ":" + p.Name
}

// Serializable reports whether the parameter is carried in a path, query,
// header, form or cookie value rather than the request body.
func (p *Parameter) Serializable() bool {
	return p.In != InBody
}

type Response struct {
	Description      string
	Schema           Property
	Headers          *ordered.Map[string, Property]
	Examples         *ordered.Map[string, any]
	VendorExtensions map[string]any
}
