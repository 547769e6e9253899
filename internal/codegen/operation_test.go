package codegen

import (
	"testing"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
	"github.com/stretchr/testify/require"
)

func petDocument() *model.Document {
	doc := model.NewDocument()
	doc.Consumes = []string{"application/json"}
	doc.Produces = []string{"application/json", "application/xml"}
	doc.AddDefinition("Pet", &model.ModelImpl{
		Type:       model.TypeObject,
		Properties: props("name", str()),
		Required:   []string{"name"},
	})
	doc.SecurityDefinitions.Set("api_key", &model.SecurityScheme{
		Type: model.SecurityAPIKey,
		Name: "X-API-Key",
		In:   "header",
	})
	doc.Security = []model.SecurityRequirement{{{Name: "api_key"}}}
	return doc
}

func petOperation() *model.Operation {
	return &model.Operation{
		OperationID: "updatePet",
		Summary:     `Update a "pet"`,
		Parameters: []*model.Parameter{
			{Name: "id", In: model.InPath, Type: model.TypeString},
			{Name: "limit", In: model.InQuery, Type: model.TypeInteger},
			{Name: "X-Trace", In: model.InHeader, Type: model.TypeString},
			{Name: "body", In: model.InBody, Required: true, Schema: model.NewRefModel("Pet")},
			{Name: "session", In: model.InCookie, Type: model.TypeString},
		},
		Responses: responses(
			"200", model.NewRefProperty("Pet"),
			"201", &model.ArrayProperty{Items: model.NewRefProperty("Pet")},
			"default", nil,
		),
	}
}

func paramNames(params []*Parameter) []string {
	var names []string
	for _, p := range params {
		names = append(names, p.ParamName)
	}
	return names
}

func TestFromOperationPartitions(t *testing.T) {
	c := newTestCodegen(t)
	co, err := c.FromOperation("/pets/{id}", model.MethodPut, petOperation(), petDocument())
	require.NoError(t, err)

	require.Equal(t, "updatePet", co.OperationID)
	require.Equal(t, "updatePet", co.Nickname)
	require.Equal(t, "PUT", co.HTTPMethod)
	require.Equal(t, `Update a \"pet\"`, co.Summary)
	require.Equal(t, []string{"id", "body", "limit", "xTrace", "session"}, paramNames(co.AllParams))

	partitions := [][]*Parameter{co.PathParams, co.QueryParams, co.HeaderParams, co.BodyParams, co.FormParams, co.CookieParams}
	total := 0
	for _, part := range partitions {
		total += len(part)
		for i, p := range part {
			require.Equal(t, i < len(part)-1, p.HasMore)
		}
	}
	require.Equal(t, len(co.AllParams), total)
	for _, p := range co.AllParams {
		found := 0
		for _, part := range partitions {
			for _, q := range part {
				if q.BaseName == p.BaseName {
					found++
					require.NotSame(t, p, q)
				}
			}
		}
		require.Equal(t, 1, found, p.BaseName)
	}
	for i, p := range co.AllParams {
		require.Equal(t, i < len(co.AllParams)-1, p.HasMore)
	}

	require.True(t, co.PathParams[0].Required)
	require.True(t, co.PathParams[0].IsPathParam)
	require.Equal(t, "Pet", co.BodyParam.DataType)
	require.True(t, co.HasOptionalParams)
	require.True(t, co.HasParams)
	require.Equal(t, []string{"Pet"}, co.Imports.Values())
}

func TestFromOperationResponses(t *testing.T) {
	c := newTestCodegen(t)
	co, err := c.FromOperation("/pets/{id}", model.MethodPut, petOperation(), petDocument())
	require.NoError(t, err)

	require.Len(t, co.Responses, 3)
	var defaults []string
	for _, r := range co.Responses {
		if r.IsDefault {
			defaults = append(defaults, r.Code)
		}
	}
	require.Equal(t, []string{"201"}, defaults)
	require.Equal(t, "0", co.Responses[2].Code)
	require.False(t, co.Responses[2].HasMore)

	require.Equal(t, "List<Pet>", co.ReturnType)
	require.Equal(t, "Pet", co.ReturnBaseType)
	require.Equal(t, "array", co.ReturnContainer)
	require.True(t, co.IsListContainer)
	require.True(t, co.HasReference)
	require.False(t, co.ReturnTypeIsPrimitive)
}

func TestFromOperationMediaTypes(t *testing.T) {
	c := newTestCodegen(t)
	doc := petDocument()

	op := petOperation()
	op.Consumes = []string{`application/"x"`}
	co, err := c.FromOperation("/pets/{id}", model.MethodPut, op, doc)
	require.NoError(t, err)
	require.Equal(t, []MediaType{{MediaType: "application/x"}}, co.Consumes)
	require.Equal(t, []MediaType{{MediaType: "application/json", HasMore: true}, {MediaType: "application/xml"}}, co.Produces)
	require.True(t, co.HasConsumes)

	op = petOperation()
	op.Produces = []string{}
	co, err = c.FromOperation("/pets/{id}", model.MethodPut, op, doc)
	require.NoError(t, err)
	require.Empty(t, co.Produces)
	require.False(t, co.HasProduces)
	require.Equal(t, "application/json", co.Consumes[0].MediaType)
}

func TestFromOperationSortsByRequired(t *testing.T) {
	op := &model.Operation{
		OperationID: "list",
		Parameters: []*model.Parameter{
			{Name: "a", In: model.InQuery, Type: model.TypeString},
			{Name: "b", In: model.InQuery, Type: model.TypeString, Required: true},
		},
	}
	tests := []struct {
		name string
		sort bool
		want []string
	}{
		{"sorted", true, []string{"b", "a"}},
		{"declared", false, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCodegen(t, func(o *Options) { o.SortParamsByRequiredFlag = tt.sort })
			co, err := c.FromOperation("/items", model.MethodGet, op, nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, paramNames(co.AllParams))
			require.Equal(t, []string{"a", "b"}, paramNames(co.QueryParams))
		})
	}
}

func TestFromOperationUniqueParamNames(t *testing.T) {
	op := &model.Operation{
		OperationID: "search",
		Parameters: []*model.Parameter{
			{Name: "q", In: model.InQuery, Type: model.TypeString},
			{Name: "q", In: model.InHeader, Type: model.TypeString},
		},
	}

	c := newTestCodegen(t)
	co, err := c.FromOperation("/search", model.MethodGet, op, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"q", "q2"}, paramNames(co.AllParams))
	require.Equal(t, "q2", co.HeaderParams[0].ParamName)

	c = newTestCodegen(t, func(o *Options) { o.EnsureUniqueParams = false })
	co, err = c.FromOperation("/search", model.MethodGet, op, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"q", "q"}, paramNames(co.AllParams))
}

func TestFromOperationGeneratesMissingID(t *testing.T) {
	c := newTestCodegen(t)
	op := &model.Operation{Responses: responses("200", nil)}
	co, err := c.FromOperation("/pets/{petId}/photos", model.MethodGet, op, nil)
	require.NoError(t, err)
	require.Equal(t, "petsPetIdPhotosGet", co.OperationID)
	require.Empty(t, co.ReturnType)
	require.Len(t, co.Responses, 1)
}

func TestFromOperationStructuralErrors(t *testing.T) {
	c := newTestCodegen(t)
	tests := []struct {
		name string
		op   *model.Operation
		doc  *model.Document
		want string
	}{
		{
			name: "body without schema",
			op:   &model.Operation{OperationID: "x", Parameters: []*model.Parameter{{Name: "body", In: model.InBody}}},
			want: "parameter POST /x body: body parameter has no schema",
		},
		{
			name: "unknown oauth flow",
			op:   &model.Operation{OperationID: "x", Security: []model.SecurityRequirement{{{Name: "oauth"}}}},
			doc: func() *model.Document {
				doc := model.NewDocument()
				doc.SecurityDefinitions.Set("oauth", &model.SecurityScheme{Type: model.SecurityOAuth2, Flow: "magic"})
				return doc
			}(),
			want: `security POST /x oauth: unknown oauth flow: "magic"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.FromOperation("/x", model.MethodPost, tt.op, tt.doc)
			var se *StructuralError
			require.ErrorAs(t, err, &se)
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestFromOperationAuthMethods(t *testing.T) {
	c := newTestCodegen(t)
	doc := petDocument()

	co, err := c.FromOperation("/pets/{id}", model.MethodPut, petOperation(), doc)
	require.NoError(t, err)
	require.True(t, co.HasAuthMethods)
	require.Len(t, co.AuthMethods, 1)
	require.True(t, co.AuthMethods[0].IsAPIKey)
	require.True(t, co.AuthMethods[0].IsKeyInHeader)
	require.Equal(t, "X-API-Key", co.AuthMethods[0].KeyParamName)

	op := petOperation()
	op.Security = []model.SecurityRequirement{}
	co, err = c.FromOperation("/pets/{id}", model.MethodPut, op, doc)
	require.NoError(t, err)
	require.False(t, co.HasAuthMethods)
}

func TestAuthMethodsNarrowsScopes(t *testing.T) {
	c := newTestCodegen(t)
	scopes := ordered.NewMap[string, string]()
	scopes.Set("read:pets", "read")
	scopes.Set("write:pets", "write")
	defs := ordered.NewMap[string, *model.SecurityScheme]()
	defs.Set("petstore_auth", &model.SecurityScheme{Type: model.SecurityOAuth2, Flow: "implicit", Scopes: scopes})

	secs, err := c.AuthMethods(defs, []model.SecurityRequirement{{{Name: "petstore_auth", Scopes: []string{"write:pets"}}}})
	require.NoError(t, err)
	require.Len(t, secs, 1)
	require.True(t, secs[0].IsImplicit)
	require.Equal(t, []Scope{{Scope: "write:pets", Description: "write"}}, secs[0].Scopes)
	require.Equal(t, 2, scopes.Len())
}

func TestRestfulFlags(t *testing.T) {
	tests := []struct {
		method, path string
		pathParams   int
		check        func(*Operation) bool
	}{
		{"GET", "/pets", 0, (*Operation).IsRestfulIndex},
		{"GET", "/pets/{id}", 1, (*Operation).IsRestfulShow},
		{"POST", "/pets", 0, (*Operation).IsRestfulCreate},
		{"PATCH", "/pets/{id}", 1, (*Operation).IsRestfulUpdate},
		{"DELETE", "/pets/{id}", 1, (*Operation).IsRestfulDestroy},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			op := &Operation{HTTPMethod: tt.method, Path: tt.path, BaseName: "Pets"}
			for range tt.pathParams {
				op.PathParams = append(op.PathParams, &Parameter{BaseName: "id"})
			}
			require.True(t, tt.check(op))
			require.True(t, op.IsRestful())
		})
	}

	show := &Operation{HTTPMethod: "GET", Path: "/pets/{id}", BaseName: "pets", PathParams: []*Parameter{{BaseName: "id"}}}
	require.Equal(t, "/{id}", show.PathWithoutBaseName())
	require.False(t, (&Operation{HTTPMethod: "GET", Path: "/pets/{id}/photos", BaseName: "pets"}).IsRestful())
}

func TestAddOperationToGroup(t *testing.T) {
	c := newTestCodegen(t)
	groups := ordered.NewMap[string, []*Operation]()
	for range 3 {
		c.AddOperationToGroup("pet", &Operation{OperationID: "getPet"}, groups)
	}
	c.AddOperationToGroup("store", &Operation{OperationID: "getPet"}, groups)

	var ids []string
	for _, op := range groups.Value("pet") {
		ids = append(ids, op.OperationID)
		require.Equal(t, "pet", op.BaseName)
	}
	require.Equal(t, []string{"getPet", "getPet_0", "getPet_1"}, ids)
	require.Equal(t, "getpet_1", groups.Value("pet")[2].OperationIDLowerCase)
	require.Equal(t, "getPet", groups.Value("store")[0].OperationID)
}
