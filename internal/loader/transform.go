package loader

import (
	"slices"
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

type transformer struct {
	definitions map[*base.Schema]string
}

// Transform maps the parsed Swagger 2.0 model onto model.Document.
func Transform(result *Result) (*model.Document, error) {
	doc := result.Document.Model

	t := &transformer{
		definitions: make(map[*base.Schema]string),
	}

	if doc.Definitions != nil && doc.Definitions.Definitions != nil {
		for name, proxy := range doc.Definitions.Definitions.FromOldest() {
			if s := proxy.Schema(); s != nil {
				t.definitions[s] = model.DefinitionRef(name)
			}
		}
	}

	out := model.NewDocument()
	out.Swagger = doc.Swagger
	out.Info = transformInfo(doc.Info)
	out.Host = doc.Host
	out.BasePath = doc.BasePath
	out.Schemes = doc.Schemes
	out.Consumes = doc.Consumes
	out.Produces = doc.Produces
	out.Tags = transformTags(doc.Tags)
	out.ExternalDocs = transformExternalDocs(doc.ExternalDocs)
	out.Security = transformSecurity(doc.Security)
	out.VendorExtensions = parseExtensions(doc.Extensions)

	if doc.Definitions != nil && doc.Definitions.Definitions != nil {
		for name, proxy := range doc.Definitions.Definitions.FromOldest() {
			out.AddDefinition(name, t.definitionModel(proxy))
		}
	}

	if doc.Paths != nil && doc.Paths.PathItems != nil {
		for pathStr, item := range doc.Paths.PathItems.FromOldest() {
			out.Paths.Set(pathStr, t.transformPath(item))
		}
	}

	if doc.SecurityDefinitions != nil && doc.SecurityDefinitions.Definitions != nil {
		for name, scheme := range doc.SecurityDefinitions.Definitions.FromOldest() {
			out.SecurityDefinitions.Set(name, transformSecurityScheme(scheme))
		}
	}

	return out, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	out := model.Info{
		Title:          info.Title,
		Description:    info.Description,
		Version:        info.Version,
		TermsOfService: info.TermsOfService,
	}
	if info.Contact != nil {
		out.Contact = &model.Contact{
			Name:  info.Contact.Name,
			URL:   info.Contact.URL,
			Email: info.Contact.Email,
		}
	}
	if info.License != nil {
		out.License = &model.License{
			Name: info.License.Name,
			URL:  info.License.URL,
		}
	}
	return out
}

func transformTags(tags []*base.Tag) []model.Tag {
	var result []model.Tag
	for _, t := range tags {
		result = append(result, model.Tag{
			Name:         t.Name,
			Description:  t.Description,
			ExternalDocs: transformExternalDocs(t.ExternalDocs),
		})
	}
	return result
}

func transformExternalDocs(docs *base.ExternalDoc) *model.ExternalDocs {
	if docs == nil {
		return nil
	}
	return &model.ExternalDocs{Description: docs.Description, URL: docs.URL}
}

func transformSecurity(reqs []*base.SecurityRequirement) []model.SecurityRequirement {
	if reqs == nil {
		return nil
	}
	result := make([]model.SecurityRequirement, 0, len(reqs))
	for _, req := range reqs {
		var r model.SecurityRequirement
		if req != nil && req.Requirements != nil {
			for name, scopes := range req.Requirements.FromOldest() {
				r = append(r, model.SecurityScope{Name: name, Scopes: scopes})
			}
		}
		result = append(result, r)
	}
	return result
}

func transformSecurityScheme(scheme *v2.SecurityScheme) *model.SecurityScheme {
	out := &model.SecurityScheme{
		Type:             model.SecuritySchemeType(scheme.Type),
		Description:      scheme.Description,
		Name:             scheme.Name,
		In:               scheme.In,
		Flow:             scheme.Flow,
		AuthorizationURL: scheme.AuthorizationUrl,
		TokenURL:         scheme.TokenUrl,
		Scopes:           ordered.NewMap[string, string](),
		VendorExtensions: parseExtensions(scheme.Extensions),
	}
	if scheme.Scopes != nil && scheme.Scopes.Values != nil {
		for name, desc := range scheme.Scopes.Values.FromOldest() {
			out.Scopes.Set(name, desc)
		}
	}
	return out
}

func (t *transformer) transformPath(item *v2.PathItem) *model.Path {
	path := &model.Path{}
	for _, p := range item.Parameters {
		path.Parameters = append(path.Parameters, t.transformParameter(p))
	}

	methods := []struct {
		method model.Method
		op     *v2.Operation
	}{
		{model.MethodGet, item.Get},
		{model.MethodHead, item.Head},
		{model.MethodPut, item.Put},
		{model.MethodPost, item.Post},
		{model.MethodDelete, item.Delete},
		{model.MethodPatch, item.Patch},
		{model.MethodOptions, item.Options},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		path.SetOperation(m.method, t.transformOperation(m.op, path.Parameters))
	}
	return path
}

// transformOperation merges path-level parameters that the operation does
// not redeclare (same name and location) after the operation's own.
func (t *transformer) transformOperation(op *v2.Operation, shared []*model.Parameter) *model.Operation {
	out := &model.Operation{
		Tags:             op.Tags,
		Summary:          op.Summary,
		Description:      op.Description,
		OperationID:      op.OperationId,
		Consumes:         op.Consumes,
		Produces:         op.Produces,
		Schemes:          op.Schemes,
		Deprecated:       flag(op.Deprecated),
		ExternalDocs:     transformExternalDocs(op.ExternalDocs),
		Security:         transformSecurity(op.Security),
		VendorExtensions: parseExtensions(op.Extensions),
		Responses:        ordered.NewMap[string, *model.Response](),
	}

	declared := make(map[string]bool)
	for _, p := range op.Parameters {
		param := t.transformParameter(p)
		declared[param.ID()] = true
		out.Parameters = append(out.Parameters, param)
	}
	for _, p := range shared {
		if !declared[p.ID()] {
			clone := *p
			out.Parameters = append(out.Parameters, &clone)
		}
	}

	if op.Responses != nil {
		if op.Responses.Codes != nil {
			for code, resp := range op.Responses.Codes.FromOldest() {
				out.Responses.Set(code, t.transformResponse(resp))
			}
		}
		if op.Responses.Default != nil {
			out.Responses.Set("default", t.transformResponse(op.Responses.Default))
		}
	}
	return out
}

func (t *transformer) transformParameter(p *v2.Parameter) *model.Parameter {
	param := &model.Parameter{
		Name:             p.Name,
		In:               model.ParameterLocation(p.In),
		Description:      p.Description,
		Required:         flag(p.Required),
		Type:             p.Type,
		Format:           p.Format,
		CollectionFormat: p.CollectionFormat,
		Default:          nodeValue(p.Default),
		Enum:             nodeValues(p.Enum),
		AllowEmptyValue:  flag(p.AllowEmptyValue),
		VendorExtensions: parseExtensions(p.Extensions),
		Constraints: model.Constraints{
			Minimum:          floatPtr(p.Minimum),
			Maximum:          floatPtr(p.Maximum),
			ExclusiveMinimum: flag(p.ExclusiveMinimum),
			ExclusiveMaximum: flag(p.ExclusiveMaximum),
			MinLength:        int64Ptr(p.MinLength),
			MaxLength:        int64Ptr(p.MaxLength),
			Pattern:          p.Pattern,
			MultipleOf:       floatPtr(p.MultipleOf),
			MinItems:         int64Ptr(p.MinItems),
			MaxItems:         int64Ptr(p.MaxItems),
			UniqueItems:      flag(p.UniqueItems),
		},
	}
	if p.Schema != nil {
		param.Schema = t.schemaModel(p.Schema)
	}
	if p.Items != nil {
		param.Items = transformItems(p.Items)
	}
	return param
}

// transformItems maps the items of a non-body parameter or header.
func transformItems(items *v2.Items) model.Property {
	if items == nil {
		return nil
	}
	if items.Type == model.TypeArray {
		return &model.ArrayProperty{Items: transformItems(items.Items)}
	}
	return &model.PrimitiveProperty{
		PropertyBase: model.PropertyBase{Enum: nodeValues(items.Enum)},
		Type:         items.Type,
		Format:       items.Format,
	}
}

func (t *transformer) transformResponse(resp *v2.Response) *model.Response {
	out := &model.Response{
		Description:      resp.Description,
		Headers:          ordered.NewMap[string, model.Property](),
		VendorExtensions: parseExtensions(resp.Extensions),
	}
	if resp.Schema != nil {
		out.Schema = t.schemaProperty("", resp.Schema)
	}
	if resp.Headers != nil {
		for name, h := range resp.Headers.FromOldest() {
			var prop model.Property
			if h.Type == model.TypeArray {
				prop = &model.ArrayProperty{Items: transformItems(h.Items)}
			} else {
				prop = &model.PrimitiveProperty{Type: h.Type, Format: h.Format}
			}
			common := prop.PropertyCommon()
			common.Name = name
			common.Description = h.Description
			out.Headers.Set(name, prop)
		}
	}
	return out
}

// definitionModel maps a top-level definition without collapsing it into a
// reference to itself.
func (t *transformer) definitionModel(proxy *base.SchemaProxy) model.Model {
	if proxy.IsReference() {
		return &model.RefModel{Ref: proxy.GetReference()}
	}
	return t.transformModel(proxy.Schema())
}

func (t *transformer) schemaModel(proxy *base.SchemaProxy) model.Model {
	if ref := t.reference(proxy); ref != "" {
		return &model.RefModel{Ref: ref}
	}
	return t.transformModel(proxy.Schema())
}

func (t *transformer) reference(proxy *base.SchemaProxy) string {
	if proxy.IsReference() {
		return proxy.GetReference()
	}
	if s := proxy.Schema(); s != nil {
		return t.definitions[s]
	}
	return ""
}

func (t *transformer) transformModel(s *base.Schema) model.Model {
	if s == nil {
		return &model.ModelImpl{}
	}

	if len(s.AllOf) > 0 {
		var parts []model.Model
		for _, proxy := range s.AllOf {
			parts = append(parts, t.schemaModel(proxy))
		}
		composed := model.NewComposedModel(parts)
		composed.ModelBase = modelBase(s)
		return composed
	}

	typ := schemaType(s)
	if typ == model.TypeArray || (typ == "" && s.Items != nil && s.Items.A != nil) {
		arr := &model.ArrayModel{
			ModelBase:   modelBase(s),
			MinItems:    int64Ptr(s.MinItems),
			MaxItems:    int64Ptr(s.MaxItems),
			UniqueItems: flag(s.UniqueItems),
		}
		if s.Items != nil && s.Items.A != nil {
			arr.Items = t.schemaProperty("", s.Items.A)
		}
		return arr
	}

	impl := &model.ModelImpl{
		ModelBase: modelBase(s),
		Type:      typ,
		Format:    s.Format,
		Required:  s.Required,
		Enum:      nodeValues(s.Enum),
		Default:   nodeValue(s.Default),
	}
	if s.XML != nil {
		impl.XML = transformXML(s.XML)
	}
	if s.Discriminator != nil {
		impl.Discriminator = s.Discriminator.PropertyName
	}
	if s.AdditionalProperties != nil && s.AdditionalProperties.A != nil {
		impl.AdditionalProperties = t.schemaProperty("", s.AdditionalProperties.A)
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		impl.Properties = t.transformProperties(s.Properties, s.Required)
	}
	return impl
}

func (t *transformer) transformProperties(props *orderedmap.Map[string, *base.SchemaProxy], required []string) *ordered.Map[string, model.Property] {
	out := ordered.NewMap[string, model.Property]()
	for name, proxy := range props.FromOldest() {
		prop := t.schemaProperty(name, proxy)
		prop.PropertyCommon().Required = slices.Contains(required, name)
		out.Set(name, prop)
	}
	return out
}

func (t *transformer) schemaProperty(name string, proxy *base.SchemaProxy) model.Property {
	if ref := t.reference(proxy); ref != "" {
		p := &model.RefProperty{Ref: ref}
		p.Name = name
		return p
	}

	s := proxy.Schema()
	if s == nil {
		p := &model.ObjectProperty{}
		p.Name = name
		return p
	}

	common := propertyBase(name, s)
	typ := schemaType(s)

	switch {
	case typ == model.TypeArray || (typ == "" && s.Items != nil && s.Items.A != nil):
		arr := &model.ArrayProperty{PropertyBase: common}
		if s.Items != nil && s.Items.A != nil {
			arr.Items = t.schemaProperty("", s.Items.A)
		}
		return arr
	case (typ == model.TypeObject || typ == "") && s.AdditionalProperties != nil && s.AdditionalProperties.A != nil:
		return &model.MapProperty{
			PropertyBase:         common,
			AdditionalProperties: t.schemaProperty("", s.AdditionalProperties.A),
		}
	case typ == model.TypeObject || typ == "":
		obj := &model.ObjectProperty{PropertyBase: common, RequiredProperties: s.Required}
		if s.Properties != nil && s.Properties.Len() > 0 {
			obj.Properties = t.transformProperties(s.Properties, s.Required)
		}
		return obj
	default:
		return &model.PrimitiveProperty{PropertyBase: common, Type: typ, Format: s.Format}
	}
}

func modelBase(s *base.Schema) model.ModelBase {
	return model.ModelBase{
		Title:            s.Title,
		Description:      s.Description,
		Example:          nodeValue(s.Example),
		ExternalDocs:     transformExternalDocs(s.ExternalDocs),
		VendorExtensions: parseExtensions(s.Extensions),
	}
}

func propertyBase(name string, s *base.Schema) model.PropertyBase {
	common := model.PropertyBase{
		Name:             name,
		Title:            s.Title,
		Description:      s.Description,
		Example:          nodeValue(s.Example),
		Default:          nodeValue(s.Default),
		ReadOnly:         flag(s.ReadOnly),
		Enum:             nodeValues(s.Enum),
		VendorExtensions: parseExtensions(s.Extensions),
		Constraints: model.Constraints{
			Minimum:     floatPtr(s.Minimum),
			Maximum:     floatPtr(s.Maximum),
			MinLength:   int64Ptr(s.MinLength),
			MaxLength:   int64Ptr(s.MaxLength),
			Pattern:     s.Pattern,
			MultipleOf:  floatPtr(s.MultipleOf),
			MinItems:    int64Ptr(s.MinItems),
			MaxItems:    int64Ptr(s.MaxItems),
			UniqueItems: flag(s.UniqueItems),
		},
	}
	if s.ExclusiveMinimum != nil && s.ExclusiveMinimum.IsA() {
		common.ExclusiveMinimum = s.ExclusiveMinimum.A
	}
	if s.ExclusiveMaximum != nil && s.ExclusiveMaximum.IsA() {
		common.ExclusiveMaximum = s.ExclusiveMaximum.A
	}
	if s.XML != nil {
		common.XML = transformXML(s.XML)
	}
	return common
}

func transformXML(x *base.XML) *model.XML {
	return &model.XML{
		Name:      x.Name,
		Namespace: x.Namespace,
		Prefix:    x.Prefix,
		Attribute: flag(x.Attribute),
		Wrapped:   flag(x.Wrapped),
	}
}

func schemaType(s *base.Schema) string {
	for _, typ := range s.Type {
		if typ != "null" {
			return typ
		}
	}
	return ""
}

func parseExtensions(extensions *orderedmap.Map[string, *yaml.Node]) map[string]any {
	if extensions == nil || extensions.Len() == 0 {
		return nil
	}
	out := make(map[string]any, extensions.Len())
	for key, node := range extensions.FromOldest() {
		if strings.HasPrefix(key, "x-") {
			out[key] = nodeValue(node)
		}
	}
	return out
}

// nodeValue decodes yaml nodes into plain Go values and passes anything
// else through.
func nodeValue(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case *yaml.Node:
		if n == nil {
			return nil
		}
		var out any
		if err := n.Decode(&out); err != nil {
			return n.Value
		}
		return out
	default:
		return v
	}
}

func nodeValues[T any](in []T) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, 0, len(in))
	for _, v := range in {
		out = append(out, nodeValue(v))
	}
	return out
}

func flag[T bool | *bool](v T) bool {
	switch b := any(v).(type) {
	case bool:
		return b
	case *bool:
		return b != nil && *b
	}
	return false
}

func floatPtr[T int | int64 | float64](v *T) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func int64Ptr[T int | int64](v *T) *int64 {
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}
