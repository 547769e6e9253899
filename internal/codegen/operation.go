package codegen

import (
	"errors"
	"slices"
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/naming"
	"github.com/kolah/apigen/internal/ordered"
)

// FromOperation builds the IR of the operation bound to method on path.
// doc supplies document-level media types, security and definitions.
func (c *Codegen) FromOperation(path string, method model.Method, op *model.Operation, doc *model.Document) (*Operation, error) {
	if doc == nil {
		doc = model.NewDocument()
	}
	identity := strings.ToUpper(string(method)) + " " + path
	co := &Operation{
		Path:             path,
		HTTPMethod:       strings.ToUpper(string(method)),
		Summary:          c.EscapeText(op.Summary),
		Notes:            c.EscapeText(op.Description),
		UnescapedNotes:   op.Description,
		Tags:             op.Tags,
		Deprecated:       op.Deprecated,
		ExternalDocs:     op.ExternalDocs,
		VendorExtensions: op.VendorExtensions,
		Imports:          ordered.NewSet[string](),
	}

	id := op.OperationID
	if strings.TrimSpace(id) == "" {
		id = c.GenerateOperationID(path, method)
		c.logger.Warn("empty operationId, generated one", "operation", identity, "operationId", id)
	}
	id, err := c.ToOperationID(naming.RemoveNonNameElementToCamelCase(id))
	if err != nil {
		return nil, withIdentity(err, identity)
	}
	co.OperationID = id

	consumes := op.Consumes
	if len(consumes) == 0 && len(doc.Consumes) > 0 {
		consumes = doc.Consumes
		c.logger.Debug("no consumes defined in operation, using global consumes", "operation", id)
	}
	co.Consumes = c.mediaTypes(consumes)
	co.HasConsumes = len(co.Consumes) > 0

	// An explicitly empty produces list on the operation wins.
	produces := op.Produces
	if produces == nil && len(doc.Produces) > 0 {
		produces = doc.Produces
		c.logger.Debug("no produces defined in operation, using global produces", "operation", id)
	}
	co.Produces = c.mediaTypes(produces)
	co.HasProduces = len(co.Produces) > 0

	imports := ordered.NewSet[string]()
	c.fromResponses(co, op, doc, imports)

	if err := c.fromParameters(co, op, imports); err != nil {
		return nil, withIdentity(err, identity)
	}
	for _, i := range imports.Values() {
		if c.NeedToImport(i) {
			co.Imports.Add(i)
		}
	}

	reqs := op.Security
	if reqs == nil {
		reqs = doc.Security
	}
	co.AuthMethods, err = c.AuthMethods(doc.SecurityDefinitions, reqs)
	if err != nil {
		return nil, withIdentity(err, identity)
	}
	co.HasAuthMethods = len(co.AuthMethods) > 0
	co.Nickname = co.OperationID
	return co, nil
}

func withIdentity(err error, identity string) error {
	var se *StructuralError
	if errors.As(err, &se) {
		if se.Identity == "" {
			se.Identity = identity
		} else {
			se.Identity = identity + " " + se.Identity
		}
	}
	return err
}

func (c *Codegen) mediaTypes(types []string) []MediaType {
	if len(types) == 0 {
		return nil
	}
	out := make([]MediaType, len(types))
	for i, t := range types {
		out[i] = MediaType{
			MediaType: c.EscapeText(c.EscapeQuotationMark(t)),
			HasMore:   i < len(types)-1,
		}
	}
	return out
}

func (c *Codegen) fromResponses(co *Operation, op *model.Operation, doc *model.Document, imports *ordered.Set[string]) {
	if op.Responses.Len() == 0 {
		return
	}
	methodCode, methodResp := FindMethodResponse(op.Responses)
	for code, resp := range op.Responses.All() {
		r := c.FromResponse(code, resp)
		if r.BaseType != "" && c.NeedToImport(r.BaseType) {
			imports.Add(r.BaseType)
		}
		r.IsDefault = methodResp != nil && code == methodCode
		if r.IsBinary && r.IsDefault {
			co.IsResponseBinary = true
		}
		co.Responses = append(co.Responses, r)
	}
	for i, r := range co.Responses {
		r.HasMore = i < len(co.Responses)-1
	}
	if methodResp == nil {
		c.logger.Warn("no 2xx or default response declared", "operation", co.OperationID)
		return
	}
	if methodResp.Schema != nil {
		c.applyReturnType(co, methodResp, doc)
	}
	co.ResponseHeaders = c.headers(methodResp)
}

func (c *Codegen) applyReturnType(co *Operation, resp *model.Response, doc *model.Document) {
	schema := resp.Schema
	cm := c.FromProperty("response", schema)
	if arr, ok := schema.(*model.ArrayProperty); ok {
		if inner := c.FromProperty("response", arr.Items); inner != nil {
			co.ReturnBaseType = inner.BaseType
		}
	} else if cm.ComplexType != "" {
		co.ReturnBaseType = cm.ComplexType
	} else {
		co.ReturnBaseType = cm.BaseType
	}
	co.Examples = toExamples(resp.Examples)
	co.DefaultResponse = stringify(schema.PropertyCommon().Default)
	co.ReturnType = cm.Datatype
	co.HasReference = doc.Definitions.Has(co.ReturnBaseType)
	if impl, ok := doc.Definition(co.ReturnBaseType).(*model.ModelImpl); ok {
		co.Discriminator = impl.Discriminator
	}
	if cm.IsContainer {
		co.ReturnContainer = cm.ContainerType
		switch strings.ToLower(cm.ContainerType) {
		case "map":
			co.IsMapContainer = true
		case "list", "array":
			co.IsListContainer = true
		}
	} else {
		co.ReturnSimpleType = true
	}
	co.ReturnTypeIsPrimitive = co.ReturnBaseType == "" || c.isPrimitive(co.ReturnBaseType)
}

func (c *Codegen) fromParameters(co *Operation, op *model.Operation, imports *ordered.Set[string]) error {
	var all []*Parameter
	for _, param := range op.Parameters {
		po, err := c.FromParameter(param, imports)
		if err != nil {
			return err
		}
		if c.cfg.EnsureUniqueParams {
			for slices.ContainsFunc(all, func(p *Parameter) bool { return p.ParamName == po.ParamName }) {
				po.ParamName = naming.NextName(po.ParamName)
			}
		}
		all = append(all, po)
		switch param.In {
		case model.InQuery:
			co.QueryParams = append(co.QueryParams, po.Copy())
		case model.InPath:
			co.PathParams = append(co.PathParams, po.Copy())
		case model.InHeader:
			co.HeaderParams = append(co.HeaderParams, po.Copy())
		case model.InCookie:
			co.CookieParams = append(co.CookieParams, po.Copy())
		case model.InBody:
			co.BodyParam = po.Copy()
			co.BodyParams = append(co.BodyParams, po.Copy())
		case model.InFormData:
			co.FormParams = append(co.FormParams, po.Copy())
		}
		if !po.Required {
			co.HasOptionalParams = true
		}
	}
	if c.cfg.SortParamsByRequiredFlag {
		slices.SortStableFunc(all, byRequired)
	}
	co.AllParams = all
	co.HasParams = len(all) > 0
	for _, list := range [][]*Parameter{co.AllParams, co.BodyParams, co.PathParams, co.QueryParams, co.HeaderParams, co.FormParams, co.CookieParams} {
		markParams(list)
	}
	return nil
}

// byRequired orders required parameters first and keeps equal pairs in
// place.
func byRequired(a, b *Parameter) int {
	switch {
	case a.Required == b.Required:
		return 0
	case a.Required:
		return -1
	}
	return 1
}

func markParams(params []*Parameter) {
	for i, p := range params {
		p.HasMore = i < len(params)-1
	}
}
