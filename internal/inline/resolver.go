// Package inline hoists anonymous object schemas into named definitions.
package inline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

// Resolver flattens a document in place. A Resolver is single-use: the
// signature cache belongs to one document.
type Resolver struct {
	// SkipMatches disables structural deduplication of generated models.
	SkipMatches bool

	doc       *model.Document
	generated map[string]string
	logger    *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		generated: make(map[string]string),
		logger:    logger,
	}
}

// Flatten replaces every inline object schema reachable from body
// parameters, responses and definitions with a reference to a named
// definition. Running it again on its own output changes nothing.
func (r *Resolver) Flatten(doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("flatten: nil document")
	}
	r.doc = doc
	if doc.Definitions == nil {
		doc.Definitions = ordered.NewMap[string, model.Model]()
	}

	for pathname, path := range doc.Paths.All() {
		for _, op := range path.Operations() {
			for _, param := range op.Parameters {
				if param.In == model.InBody && param.Schema != nil {
					r.flattenBody(pathname, param)
				}
			}
			for code, resp := range op.Responses.All() {
				if resp.Schema != nil {
					r.flattenResponse(pathname, code, resp)
				}
			}
		}
	}

	for name, m := range doc.Definitions.All() {
		switch m := m.(type) {
		case *model.ModelImpl:
			r.flattenProperties(m.Properties, name)
		case *model.ArrayModel:
			if !model.HasProperties(m.Items) {
				continue
			}
			obj := m.Items.(*model.ObjectProperty)
			innerName := r.uniqueName(name + "_inner")
			m.Items = model.NewRefProperty(r.register(innerName, r.modelFromObject(obj, innerName)))
		}
	}
	return nil
}

func (r *Resolver) flattenBody(pathname string, param *model.Parameter) {
	switch m := param.Schema.(type) {
	case *model.ModelImpl:
		if (m.Type != "" && m.Type != model.TypeObject) || m.Properties.Len() == 0 {
			return
		}
		r.flattenProperties(m.Properties, pathname)
		name := r.resolveModelName(m.Title, param.Name)
		r.add(name, m)
		param.Schema = model.NewRefModel(name)
	case *model.ArrayModel:
		if !model.HasProperties(m.Items) {
			return
		}
		obj := m.Items.(*model.ObjectProperty)
		r.flattenProperties(obj.Properties, pathname)
		name := r.resolveModelName(obj.Title, param.Name)
		m.Items = model.NewRefProperty(r.register(name, r.modelFromObject(obj, name)))
	default:
		r.logger.Debug("body schema left inline", "path", pathname, "param", param.Name)
	}
}

func (r *Resolver) flattenResponse(pathname, code string, resp *model.Response) {
	key := "inline_response_" + code
	switch p := resp.Schema.(type) {
	case *model.ObjectProperty:
		if !model.HasProperties(p) {
			return
		}
		name := r.resolveModelName(p.Title, key)
		resp.Schema = model.NewRefProperty(r.register(name, r.modelFromObject(p, name)))
	case *model.ArrayProperty:
		if !model.HasProperties(p.Items) {
			return
		}
		obj := p.Items.(*model.ObjectProperty)
		r.flattenProperties(obj.Properties, pathname)
		name := r.resolveModelName(obj.Title, key)
		p.Items = model.NewRefProperty(r.register(name, r.modelFromObject(obj, name)))
	case *model.MapProperty:
		if !model.HasProperties(p.AdditionalProperties) {
			return
		}
		obj := p.AdditionalProperties.(*model.ObjectProperty)
		r.flattenProperties(obj.Properties, pathname)
		name := r.resolveModelName(obj.Title, key)
		p.AdditionalProperties = model.NewRefProperty(r.register(name, r.modelFromObject(obj, name)))
	}
}

// flattenProperties hoists object, array-of-object and map-of-object
// properties of one schema into definitions named <path>_<key>.
func (r *Resolver) flattenProperties(props *ordered.Map[string, model.Property], path string) {
	if props.Len() == 0 {
		return
	}
	for key, prop := range props.All() {
		switch p := prop.(type) {
		case *model.ObjectProperty:
			if !model.HasProperties(p) {
				continue
			}
			name := r.uniqueName(path + "_" + key)
			ref := model.NewRefProperty(r.register(name, r.modelFromObject(p, name)))
			ref.PropertyBase = carried(p.PropertyBase)
			props.Set(key, ref)
		case *model.ArrayProperty:
			if !model.HasProperties(p.Items) {
				continue
			}
			obj := p.Items.(*model.ObjectProperty)
			r.flattenProperties(obj.Properties, path)
			name := r.uniqueName(path + "_" + key)
			p.Items = model.NewRefProperty(r.register(name, r.modelFromObject(obj, name)))
		case *model.MapProperty:
			if !model.HasProperties(p.AdditionalProperties) {
				continue
			}
			obj := p.AdditionalProperties.(*model.ObjectProperty)
			r.flattenProperties(obj.Properties, path)
			name := r.uniqueName(path + "_" + key)
			p.AdditionalProperties = model.NewRefProperty(r.register(name, r.modelFromObject(obj, name)))
		}
	}
}

// carried keeps the per-use attributes of a hoisted property on the
// reference that replaces it.
func carried(b model.PropertyBase) model.PropertyBase {
	return model.PropertyBase{
		Name:     b.Name,
		Required: b.Required,
		ReadOnly: b.ReadOnly,
	}
}

// modelFromObject builds the definition for an inline object, flattening
// its own nested properties under path first.
func (r *Resolver) modelFromObject(obj *model.ObjectProperty, path string) *model.ModelImpl {
	m := &model.ModelImpl{
		ModelBase: model.ModelBase{
			Title:            obj.Title,
			Description:      obj.Description,
			Example:          stringExample(obj.Example),
			VendorExtensions: obj.VendorExtensions,
		},
		Type:     model.TypeObject,
		Required: obj.RequiredProperties,
		XML:      obj.XML,
	}
	if obj.Properties != nil {
		r.flattenProperties(obj.Properties, path)
		m.Properties = obj.Properties
	}
	return m
}

func stringExample(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// register adds m under name unless a structurally identical model was
// generated before, and returns the name the caller should reference.
func (r *Resolver) register(name string, m model.Model) string {
	if existing, ok := r.matchGenerated(m); ok {
		r.logger.Debug("reusing generated model", "candidate", name, "model", existing)
		return existing
	}
	r.add(name, m)
	return name
}

// add defines m under name and records it for later matches.
func (r *Resolver) add(name string, m model.Model) {
	r.addGenerated(name, m)
	r.doc.AddDefinition(name, m)
}

func (r *Resolver) resolveModelName(title, key string) string {
	if title != "" {
		return r.uniqueName(title)
	}
	return r.uniqueName(key)
}

func (r *Resolver) matchGenerated(m model.Model) (string, bool) {
	if r.SkipMatches {
		return "", false
	}
	sig, ok := signature(m)
	if !ok {
		return "", false
	}
	name, ok := r.generated[sig]
	return name, ok
}

func (r *Resolver) addGenerated(name string, m model.Model) {
	if sig, ok := signature(m); ok {
		r.generated[sig] = name
	}
}

func signature(m model.Model) (string, bool) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", false
	}
	return string(data), true
}

var nonModelNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.]`)

// uniqueName sanitizes key and appends _1, _2, ... until the name is free.
func (r *Resolver) uniqueName(key string) string {
	key = nonModelNameChars.ReplaceAllString(key, "")
	name := key
	for count := 1; r.doc.Definitions.Has(name); count++ {
		name = fmt.Sprintf("%s_%d", key, count)
	}
	return name
}
