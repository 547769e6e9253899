package codegen

import (
	"io"
	"log/slog"
	"testing"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
	"github.com/stretchr/testify/require"
)

// testLang maps swagger types through the type mapping and renders
// containers as List<T> and Map<String, T>.
type testLang struct{ Base }

func (testLang) Name() string { return "test" }
func (testLang) Help() string { return "target used by tests" }

func (testLang) Configure(cfg *Config) {
	cfg.SetReservedWords("class", "default")
	for _, p := range []string{"String", "Integer", "Long", "Boolean", "Float", "Double", "Object"} {
		cfg.LanguageSpecificPrimitives.Add(p)
	}
	cfg.InstantiationTypes["array"] = "ArrayList"
	cfg.InstantiationTypes["map"] = "HashMap"
}

func (testLang) SwaggerType(c *Codegen, p model.Property) string {
	return c.TypeDeclarationOf(RawSwaggerType(p))
}

func (l testLang) TypeDeclaration(c *Codegen, p model.Property) string {
	switch p := p.(type) {
	case *model.ArrayProperty:
		return c.TypeDeclarationOf(model.TypeArray) + "<" + c.TypeDeclaration(p.Items) + ">"
	case *model.MapProperty:
		return "Map<String, " + c.TypeDeclaration(p.AdditionalProperties) + ">"
	}
	return l.Base.TypeDeclaration(c, p)
}

func newTestCodegen(t *testing.T, mutate ...func(*Options)) *Codegen {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(testLang{}, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func str() model.Property { return &model.PrimitiveProperty{Type: model.TypeString} }

func props(kv ...any) *ordered.Map[string, model.Property] {
	m := ordered.NewMap[string, model.Property]()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(model.Property))
	}
	return m
}

func responses(kv ...any) *ordered.Map[string, *model.Response] {
	m := ordered.NewMap[string, *model.Response]()
	for i := 0; i+1 < len(kv); i += 2 {
		schema, _ := kv[i+1].(model.Property)
		m.Set(kv[i].(string), &model.Response{Description: "response " + kv[i].(string), Schema: schema})
	}
	return m
}

func TestNewRejectsUnknownLibrary(t *testing.T) {
	lang := libraryLang{}
	_, err := New(lang, Options{Library: "nope"}, nil)
	require.ErrorContains(t, err, `unknown library "nope"`)

	c, err := New(lang, Options{Library: "okhttp"}, nil)
	require.NoError(t, err)
	require.Equal(t, "okhttp", c.Config().AdditionalProperties[KeyLibrary])
}

type libraryLang struct{ testLang }

func (l libraryLang) Configure(cfg *Config) {
	l.testLang.Configure(cfg)
	cfg.SupportedLibraries.Set("okhttp", "HTTP client: OkHttp")
}

func TestNewAppliesAdditionalProperties(t *testing.T) {
	c := newTestCodegen(t, func(o *Options) {
		o.AdditionalProperties = map[string]any{
			KeyModelPackage:             "io.example.model",
			KeySortParamsByRequiredFlag: "false",
			KeySupportsInheritance:      true,
		}
	})
	cfg := c.Config()
	require.Equal(t, "io.example.model", cfg.ModelPackage)
	require.False(t, cfg.SortParamsByRequiredFlag)
	require.True(t, cfg.SupportsInheritance)
	require.Equal(t, false, cfg.AdditionalProperties[KeySortParamsByRequiredFlag])

	_, err := New(testLang{}, Options{AdditionalProperties: map[string]any{KeyEnsureUniqueParams: 3}}, nil)
	require.ErrorContains(t, err, KeyEnsureUniqueParams)
}

func TestNames(t *testing.T) {
	c := newTestCodegen(t)

	require.Equal(t, "DefaultApi", c.ToAPIName(""))
	require.Equal(t, "PetApi", c.ToAPIName("pet"))
	require.Equal(t, "petApi", c.ToAPIVarName("pet"))
	require.Equal(t, "_class", c.ToVarName("class"))
	require.Equal(t, "xRequestId", c.ToParamName("X-Request-Id"))
	require.Equal(t, "IN_STOCK", c.ToEnumVarName("in-stock", "String"))
	require.Equal(t, "_1_2", c.ToEnumVarName("1.2", "String"))
	require.Equal(t, `"a\"b"`, c.ToEnumValue(`a"b`, "String"))
	require.Equal(t, "3", c.ToEnumValue("3", "Number"))

	_, err := c.ToOperationID("")
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	require.Contains(t, se.Error(), "empty method name")
}

func TestGenerateOperationID(t *testing.T) {
	c := newTestCodegen(t)
	tests := []struct {
		path   string
		method model.Method
		want   string
	}{
		{"/pets/{petId}/photos", model.MethodGet, "petsPetIdPhotosGet"},
		{"/pets", model.MethodPost, "petsPost"},
		{"/", model.MethodGet, "rootGet"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, c.GenerateOperationID(tt.path, tt.method))
		})
	}
}

func TestFromPropertyContainerEnum(t *testing.T) {
	c := newTestCodegen(t)
	status := &model.ArrayProperty{Items: &model.PrimitiveProperty{
		PropertyBase: model.PropertyBase{Enum: []any{"available", "sold"}},
		Type:         model.TypeString,
	}}

	p := c.FromProperty("status", status)
	require.True(t, p.IsContainer)
	require.True(t, p.IsListContainer)
	require.True(t, p.IsEnum)
	require.Equal(t, "List<String>", p.Datatype)
	require.Equal(t, "List<StatusEnum>", p.DatatypeWithEnum)
	require.Equal(t, "StatusEnum", p.EnumName)
	require.Equal(t, []any{"available", "sold"}, p.AllowableValues.Values)
	require.True(t, p.IsPrimitiveType)
	require.Equal(t, "String", p.BaseType)
}

func TestFromPropertyKinds(t *testing.T) {
	c := newTestCodegen(t)
	tests := []struct {
		name  string
		prop  model.Property
		check func(t *testing.T, p *Property)
	}{
		{"uuid", &model.PrimitiveProperty{Type: model.TypeString, Format: "uuid"}, func(t *testing.T, p *Property) {
			require.True(t, p.IsString)
			require.True(t, p.IsUUID)
			require.Equal(t, "uuid", p.DataFormat)
		}},
		{"int64", &model.PrimitiveProperty{Type: model.TypeInteger, Format: "int64"}, func(t *testing.T, p *Property) {
			require.True(t, p.IsLong)
			require.Equal(t, "Long", p.Datatype)
			require.True(t, p.IsPrimitiveType)
		}},
		{"ref", model.NewRefProperty("Pet"), func(t *testing.T, p *Property) {
			require.Equal(t, "Pet", p.ComplexType)
			require.True(t, p.IsNotContainer)
			require.False(t, p.IsPrimitiveType)
		}},
		{"map", &model.MapProperty{AdditionalProperties: model.NewRefProperty("Tag")}, func(t *testing.T, p *Property) {
			require.True(t, p.IsMapContainer)
			require.Equal(t, "Map<String, Tag>", p.Datatype)
			require.Equal(t, "Tag", p.ComplexType)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := c.FromProperty("field", tt.prop)
			require.NotNil(t, p)
			tt.check(t, p)
		})
	}

	require.Nil(t, c.FromProperty("missing", nil))
}

func TestEnumVars(t *testing.T) {
	c := newTestCodegen(t)
	values := []any{"STATUS_NEW", "STATUS_OLD"}

	vars := c.EnumVars(values, "String")
	require.Equal(t, []EnumVar{
		{Name: "NEW", Value: `"STATUS_NEW"`, HasMore: true},
		{Name: "OLD", Value: `"STATUS_OLD"`},
	}, vars)
	require.Equal(t, vars, c.EnumVars(values, "String"))

	require.Equal(t, "X", c.EnumVars([]any{"X"}, "String")[0].Name)
	require.Equal(t, "_1", c.EnumVars([]any{1, 2}, "Integer")[0].Name)
}

func TestUpdatePropertyEnumRewritesDefault(t *testing.T) {
	c := newTestCodegen(t)
	p := c.FromProperty("status", &model.PrimitiveProperty{
		PropertyBase: model.PropertyBase{Enum: []any{"available", "sold"}, Default: "sold"},
		Type:         model.TypeString,
	})
	c.UpdatePropertyEnum(p)
	require.Len(t, p.AllowableValues.EnumVars, 2)
	require.Equal(t, "StatusEnum.SOLD", p.DefaultValue)
}

func TestFindMethodResponse(t *testing.T) {
	tests := []struct {
		name  string
		codes []any
		want  string
	}{
		{"greatest 2xx", []any{"200", nil, "201", nil, "default", nil}, "201"},
		{"default only", []any{"404", nil, "default", nil}, "default"},
		{"string order", []any{"299", nil, "201", nil}, "299"},
		{"none", []any{"404", nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := FindMethodResponse(responses(tt.codes...))
			require.Equal(t, tt.want, code)
			require.Equal(t, tt.want != "", resp != nil)
		})
	}
}

func TestFromResponse(t *testing.T) {
	c := newTestCodegen(t)

	r := c.FromResponse("default", &model.Response{Description: "error"})
	require.Equal(t, "0", r.Code)
	require.True(t, r.PrimitiveType)
	require.True(t, r.SimpleType)

	r = c.FromResponse("200", &model.Response{Schema: &model.ArrayProperty{Items: model.NewRefProperty("Pet")}})
	require.Equal(t, "Pet", r.BaseType)
	require.Equal(t, "List<Pet>", r.DataType)
	require.True(t, r.IsListContainer)
	require.False(t, r.PrimitiveType)
}
