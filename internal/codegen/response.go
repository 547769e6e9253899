package codegen

import (
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

// FindMethodResponse picks the response an operation returns: the 2xx
// response with the greatest code compared as strings, so "201" beats
// "200" and "299" beats "201". "default" is used only when no 2xx code is
// declared. It returns "" and nil when neither exists.
func FindMethodResponse(responses *ordered.Map[string, *model.Response]) (string, *model.Response) {
	var code string
	var resp *model.Response
	for c, r := range responses.All() {
		if strings.HasPrefix(c, "2") && (code == "" || c > code) {
			code, resp = c, r
		}
	}
	if resp != nil {
		return code, resp
	}
	if r, ok := responses.Get("default"); ok {
		return "default", r
	}
	return "", nil
}

// FromResponse builds the IR of one declared response. The "default"
// response gets code "0".
func (c *Codegen) FromResponse(code string, response *model.Response) *Response {
	r := &Response{
		Code:             code,
		Message:          c.EscapeText(response.Description),
		Schema:           response.Schema,
		Examples:         toExamples(response.Examples),
		JSONSchema:       prettyJSON(response.Schema),
		VendorExtensions: response.VendorExtensions,
		Headers:          c.headers(response),
	}
	if code == "default" {
		r.Code = "0"
	}
	if response.Schema != nil {
		cm := c.FromProperty("response", response.Schema)
		if arr, ok := response.Schema.(*model.ArrayProperty); ok {
			if inner := c.FromProperty("response", arr.Items); inner != nil {
				r.BaseType = inner.BaseType
			}
		} else if cm.ComplexType != "" {
			r.BaseType = cm.ComplexType
		} else {
			r.BaseType = cm.BaseType
		}
		r.DataType = cm.Datatype
		r.IsBinary = isBinaryType(cm.Datatype)
		if cm.IsContainer {
			r.ContainerType = cm.ContainerType
			r.IsMapContainer = cm.ContainerType == "map"
			r.IsListContainer = cm.ContainerType == "list" || cm.ContainerType == "array"
		} else {
			r.SimpleType = true
		}
		r.PrimitiveType = r.BaseType == "" || c.isPrimitive(r.BaseType)
	}
	if r.BaseType == "" {
		r.IsMapContainer = false
		r.IsListContainer = false
		r.PrimitiveType = true
		r.SimpleType = true
	}
	return r
}

func (c *Codegen) headers(response *model.Response) []*Property {
	var out []*Property
	for name, h := range response.Headers.All() {
		if p := c.FromProperty(name, h); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func toExamples(examples *ordered.Map[string, any]) []Example {
	var out []Example
	for contentType, ex := range examples.All() {
		out = append(out, Example{ContentType: contentType, Example: stringify(ex)})
	}
	return out
}

func isBinaryType(datatype string) bool {
	return strings.HasPrefix(strings.ToLower(datatype), "byte")
}
