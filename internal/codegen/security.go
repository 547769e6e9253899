package codegen

import (
	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

// FromSecurity converts security scheme definitions in declaration order.
// An oauth2 scheme with a flow outside accessCode, password, application
// and implicit is a structural error.
func (c *Codegen) FromSecurity(schemes *ordered.Map[string, *model.SecurityScheme]) ([]*Security, error) {
	var secs []*Security
	for name, def := range schemes.All() {
		if def == nil {
			continue
		}
		sec := &Security{Name: name, Type: string(def.Type)}
		switch def.Type {
		case model.SecurityAPIKey:
			sec.IsAPIKey = true
			sec.KeyParamName = def.Name
			sec.IsKeyInHeader = def.In == "header"
			sec.IsKeyInQuery = !sec.IsKeyInHeader
		case model.SecurityBasic:
			sec.IsBasic = true
		case model.SecurityOAuth2:
			sec.IsOAuth = true
			sec.Flow = def.Flow
			switch def.Flow {
			case "accessCode":
				sec.IsCode = true
			case "password":
				sec.IsPassword = true
			case "application":
				sec.IsApplication = true
			case "implicit":
				sec.IsImplicit = true
			default:
				return nil, structural("security", name, "unknown oauth flow: %q", def.Flow)
			}
			sec.AuthorizationURL = def.AuthorizationURL
			sec.TokenURL = def.TokenURL
			for scope, desc := range def.Scopes.All() {
				sec.Scopes = append(sec.Scopes, Scope{Scope: scope, Description: desc})
			}
			for i := range sec.Scopes {
				sec.Scopes[i].HasMore = i < len(sec.Scopes)-1
			}
		default:
			return nil, structural("security", name, "unknown security scheme type: %q", def.Type)
		}
		secs = append(secs, sec)
	}
	markSecurity(secs)
	return secs, nil
}

func markSecurity(secs []*Security) {
	for i, s := range secs {
		s.HasMore = i < len(secs)-1
	}
}

// AuthMethods converts the schemes named by reqs, limited to those the
// document defines. OAuth2 scopes are narrowed to the ones requested when
// a requirement lists any.
func (c *Codegen) AuthMethods(defs *ordered.Map[string, *model.SecurityScheme], reqs []model.SecurityRequirement) ([]*Security, error) {
	if len(reqs) == 0 || defs.Len() == 0 {
		return nil, nil
	}
	selected := ordered.NewMap[string, *model.SecurityScheme]()
	requested := make(map[string]*ordered.Set[string])
	for _, req := range reqs {
		for _, scope := range req {
			def, ok := defs.Get(scope.Name)
			if !ok {
				c.logger.Warn("security requirement names an undefined scheme", "scheme", scope.Name)
				continue
			}
			selected.Set(scope.Name, def)
			if requested[scope.Name] == nil {
				requested[scope.Name] = ordered.NewSet[string]()
			}
			for _, s := range scope.Scopes {
				requested[scope.Name].Add(s)
			}
		}
	}

	for name, def := range selected.All() {
		want := requested[name]
		if def.Type != model.SecurityOAuth2 || want.Len() == 0 {
			continue
		}
		narrowed := *def
		narrowed.Scopes = ordered.NewMap[string, string]()
		for scope, desc := range def.Scopes.All() {
			if want.Has(scope) {
				narrowed.Scopes.Set(scope, desc)
			}
		}
		selected.Set(name, &narrowed)
	}
	return c.FromSecurity(selected)
}
