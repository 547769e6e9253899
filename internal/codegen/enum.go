package codegen

import (
	"fmt"
	"regexp"
	"strings"
)

var trailingAlnum = regexp.MustCompile(`[a-zA-Z0-9]+$`)

// commonEnumPrefix returns the prefix shared by all values, cut back to
// the last non-alphanumeric character so "STATUS_NEW", "STATUS_OLD" share
// "STATUS_". Values that are not all strings share nothing.
func commonEnumPrefix(values []any) string {
	if len(values) < 2 {
		return ""
	}
	prefix, ok := values[0].(string)
	if !ok {
		return ""
	}
	for _, v := range values[1:] {
		s, ok := v.(string)
		if !ok {
			return ""
		}
		n := 0
		for n < len(prefix) && n < len(s) && prefix[n] == s[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return trailingAlnum.ReplaceAllString(prefix, "")
}

func enumString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// EnumVars derives constant names and literals for enum values. The same
// values always yield the same result.
func (c *Codegen) EnumVars(values []any, datatype string) []EnumVar {
	prefix := commonEnumPrefix(values)
	vars := make([]EnumVar, 0, len(values))
	for _, v := range values {
		s := enumString(v)
		name := strings.TrimPrefix(s, prefix)
		if name == "" {
			name = s
		}
		vars = append(vars, EnumVar{
			Name:  c.ToEnumVarName(name, datatype),
			Value: c.ToEnumValue(s, datatype),
		})
	}
	for i := range vars {
		vars[i].HasMore = i < len(vars)-1
	}
	return vars
}

// PostProcessModelEnums fills enumVars of an enum model and of every enum
// property in its vars.
func (c *Codegen) PostProcessModelEnums(m *Model) {
	if m.IsEnum && m.AllowableValues != nil {
		m.AllowableValues.EnumVars = c.EnumVars(m.AllowableValues.Values, m.DataType)
	}
	for _, v := range m.Vars {
		c.UpdatePropertyEnum(v)
	}
	for _, v := range m.AllVars {
		c.UpdatePropertyEnum(v)
	}
}

// UpdatePropertyEnum fills enumVars of p, or of its innermost element for
// containers, and rewrites a matching default value to the enum constant.
func (c *Codegen) UpdatePropertyEnum(p *Property) {
	allowable := p.AllowableValues
	if p.Items != nil {
		allowable = innermost(p).AllowableValues
	}
	if allowable == nil || len(allowable.Values) == 0 {
		return
	}
	allowable.EnumVars = c.EnumVars(allowable.Values, p.Datatype)
	if p.DefaultValue == "" {
		return
	}
	want := c.ToEnumValue(p.DefaultValue, p.Datatype)
	for _, ev := range allowable.EnumVars {
		if ev.Value == want {
			p.DefaultValue = c.ToEnumDefaultValue(ev.Name, p.DatatypeWithEnum)
			return
		}
	}
}
