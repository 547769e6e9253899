package codegen

import (
	"slices"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

// Definitions is the normalized definition set models are resolved
// against.
type Definitions = *ordered.Map[string, model.Model]

// FromModel builds the IR of the definition name. defs resolves the
// references of composed models and may be nil.
func (c *Codegen) FromModel(name string, schema model.Model, defs Definitions) *Model {
	m := &Model{
		Name:          name,
		Classname:     c.ToModelName(name),
		ClassVarName:  c.ToVarName(name),
		ClassFilename: c.ToModelFilename(name),
		Imports:       ordered.NewSet[string](),
		ModelJSON:     prettyJSON(schema),
	}
	if c.IsReservedWord(name) {
		m.Name = c.lang.EscapeReservedWord(name)
	}
	if schema == nil {
		m.EmptyVars = true
		return m
	}
	common := schema.ModelCommon()
	m.Title = common.Title
	m.Description = c.EscapeText(common.Description)
	m.UnescapedDescription = common.Description
	m.ExternalDocs = common.ExternalDocs
	m.VendorExtensions = common.VendorExtensions

	switch s := schema.(type) {
	case *model.ArrayModel:
		arr := &model.ArrayProperty{Items: s.Items}
		m.IsArrayModel = true
		if cp := c.FromProperty(name, arr); cp != nil {
			m.ArrayModelType = cp.ComplexType
		}
		c.addParentContainer(m, name, arr)
	case *model.RefModel:
	case *model.ComposedModel:
		c.fromComposed(m, s, defs)
	case *model.ModelImpl:
		m.Discriminator = s.Discriminator
		if len(s.Enum) > 0 {
			m.IsEnum = true
			m.AllowableValues = &AllowableValues{Values: s.Enum}
			typ := s.Type
			if typ == "" {
				typ = model.TypeString
			}
			m.DataType = c.SwaggerType(PropertyFor(typ, s.Format))
		}
		if s.AdditionalProperties != nil {
			c.addParentContainer(m, m.Name, &model.MapProperty{AdditionalProperties: s.AdditionalProperties})
		}
		c.addVars(m, s.Properties, s.Required, nil, nil)
	}
	return m
}

// fromComposed merges interface, parent and own properties of an allOf
// model. With inheritance support, ancestor properties go to AllVars only.
func (c *Codegen) fromComposed(m *Model, s *model.ComposedModel, defs Definitions) {
	inherit := c.cfg.SupportsInheritance
	props := ordered.NewMap[string, model.Property]()
	var required []string
	var allProps *ordered.Map[string, model.Property]
	var allRequired []string
	if inherit {
		allProps = ordered.NewMap[string, model.Property]()
	}
	ancestors := func() (*ordered.Map[string, model.Property], *[]string) {
		if inherit {
			return allProps, &allRequired
		}
		return props, &required
	}

	var parent *model.RefModel
	switch p := s.Parent.(type) {
	case *model.RefModel:
		parent = p
	case nil:
	default:
		// An inline first component carries the model's own properties.
		c.addProperties(props, &required, p, defs, nil)
		if inherit {
			c.addProperties(allProps, &allRequired, p, defs, nil)
		}
	}

	for _, iface := range s.Interfaces {
		ifaceModel := lookup(defs, iface.SimpleRef())
		if parent == nil && hasDiscriminator(ifaceModel) {
			parent = iface
			continue
		}
		ref := c.ToModelName(iface.SimpleRef())
		m.Interfaces = append(m.Interfaces, ref)
		c.addImport(m, ref)
		if defs != nil {
			target, req := ancestors()
			c.addProperties(target, req, ifaceModel, defs, nil)
		}
	}

	if parent != nil {
		m.ParentSchema = parent.SimpleRef()
		m.Parent = c.ToModelName(m.ParentSchema)
		c.addImport(m, m.Parent)
		if defs != nil {
			target, req := ancestors()
			c.addProperties(target, req, lookup(defs, m.ParentSchema), defs, nil)
		}
	}

	child := s.Child
	if ref, ok := child.(*model.RefModel); ok && defs != nil {
		child = lookup(defs, ref.SimpleRef())
	}
	if impl, ok := child.(*model.ModelImpl); ok && child != s.Parent {
		c.addProperties(props, &required, impl, defs, nil)
		if inherit {
			c.addProperties(allProps, &allRequired, impl, defs, nil)
		}
	}
	c.addVars(m, props, required, allProps, allRequired)
}

func lookup(defs Definitions, name string) model.Model {
	if defs == nil {
		return nil
	}
	return defs.Value(name)
}

func hasDiscriminator(m model.Model) bool {
	impl, ok := m.(*model.ModelImpl)
	return ok && impl.Discriminator != ""
}

// addProperties collects the properties and required names of schema,
// following references and allOf components. seen guards against
// reference cycles.
func (c *Codegen) addProperties(props *ordered.Map[string, model.Property], required *[]string, schema model.Model, defs Definitions, seen map[string]bool) {
	switch s := schema.(type) {
	case *model.ModelImpl:
		for k, v := range s.Properties.All() {
			props.Set(k, v)
		}
		*required = append(*required, s.Required...)
	case *model.RefModel:
		name := s.SimpleRef()
		if seen == nil {
			seen = make(map[string]bool)
		}
		if seen[name] {
			c.logger.Warn("cyclic model reference", "model", name)
			return
		}
		seen[name] = true
		c.addProperties(props, required, lookup(defs, name), defs, seen)
	case *model.ComposedModel:
		for _, component := range s.AllOf {
			c.addProperties(props, required, component, defs, seen)
		}
	}
}

func (c *Codegen) addVars(m *Model, props *ordered.Map[string, model.Property], required []string, allProps *ordered.Map[string, model.Property], allRequired []string) {
	m.HasOnlyReadOnly = true
	if props.Len() > 0 {
		m.HasVars = true
		mandatory := sortedUnique(required)
		m.Vars = c.buildVars(m, props, mandatory)
		m.Mandatory = mandatory
		m.AllMandatory = mandatory
	} else {
		m.EmptyVars = true
	}
	if allProps != nil {
		allMandatory := sortedUnique(allRequired)
		m.AllVars = c.buildVars(m, allProps, allMandatory)
		m.AllMandatory = allMandatory
		for _, v := range m.AllVars {
			v.IsInherited = !props.Has(v.BaseName)
		}
	}
}

func (c *Codegen) buildVars(m *Model, props *ordered.Map[string, model.Property], mandatory []string) []*Property {
	vars := make([]*Property, 0, props.Len())
	for key, prop := range props.All() {
		if prop == nil {
			c.logger.Warn("nil property", "model", m.Name, "property", key)
			continue
		}
		cp := c.FromProperty(key, prop)
		cp.Required = slices.Contains(mandatory, key)
		m.HasRequired = m.HasRequired || cp.Required
		if cp.IsEnum {
			m.HasEnums = true
		}
		if !cp.ReadOnly {
			m.HasOnlyReadOnly = false
		}
		if cp.IsContainer {
			c.addImport(m, c.cfg.TypeMapping["array"])
		}
		c.addImport(m, cp.BaseType)
		for inner := cp; inner != nil; inner = inner.Items {
			c.addImport(m, inner.ComplexType)
		}
		vars = append(vars, cp)
	}
	return vars
}

func sortedUnique(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}

func (c *Codegen) addImport(m *Model, t string) {
	if c.NeedToImport(t) {
		m.Imports.Add(t)
	}
}

// addParentContainer makes an array or map model extend its container
// instantiation type.
func (c *Codegen) addParentContainer(m *Model, name string, p model.Property) {
	tmp := c.FromProperty(name, p)
	if tmp == nil {
		return
	}
	c.addImport(m, tmp.ComplexType)
	m.Parent = c.InstantiationType(p)
	if inst, ok := c.cfg.InstantiationTypes[tmp.ContainerType]; ok {
		c.addImport(m, inst)
	}
	if mapped, ok := c.cfg.TypeMapping[tmp.ContainerType]; ok {
		c.addImport(m, mapped)
	}
}

// PostProcessAllModels links parent and interface models by class name
// when inheritance is supported. Links that would make a model reach
// itself are dropped.
func (c *Codegen) PostProcessAllModels(models []*Model) {
	if !c.cfg.SupportsInheritance {
		return
	}
	byClass := make(map[string]*Model, len(models))
	for _, m := range models {
		byClass[m.Classname] = m
	}
	for _, m := range models {
		if m.Parent != "" {
			if parent, ok := byClass[m.Parent]; ok {
				m.ParentModel = parent
			}
		}
		for _, name := range m.Interfaces {
			if iface, ok := byClass[name]; ok {
				m.InterfaceModels = append(m.InterfaceModels, iface)
			}
		}
	}
	var cyclic []*Model
	for _, m := range models {
		if reaches(m, m, map[*Model]bool{}) {
			cyclic = append(cyclic, m)
		}
	}
	for _, m := range cyclic {
		c.logger.Warn("dropping cyclic inheritance links", "model", m.Name)
		m.ParentModel = nil
		m.InterfaceModels = nil
	}
	for _, m := range models {
		if m.ParentModel != nil {
			m.ParentModel.HasChildren = true
		}
	}
}

func reaches(from, target *Model, seen map[*Model]bool) bool {
	next := slices.Clone(from.InterfaceModels)
	if from.ParentModel != nil {
		next = append(next, from.ParentModel)
	}
	for _, n := range next {
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		if reaches(n, target, seen) {
			return true
		}
	}
	return false
}

// ModelDepth counts the composed-model parent links from name to its root.
func ModelDepth(name string, defs Definitions) int {
	depth := 0
	seen := map[string]bool{name: true}
	for {
		composed, ok := lookup(defs, name).(*model.ComposedModel)
		if !ok {
			return depth
		}
		ref, ok := composed.Parent.(*model.RefModel)
		if !ok {
			return depth
		}
		name = ref.SimpleRef()
		if seen[name] {
			return depth
		}
		seen[name] = true
		depth++
	}
}
