package codegen

import (
	"testing"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
	"github.com/stretchr/testify/require"
)

func TestFromParameter(t *testing.T) {
	limit := int64(10)
	minimum := 1.0

	tests := []struct {
		name  string
		param *model.Parameter
		check func(t *testing.T, p *Parameter)
	}{
		{
			name:  "string example",
			param: &model.Parameter{Name: "status", In: model.InQuery, Type: model.TypeString},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "status_example", p.Example)
				require.True(t, p.IsString)
				require.True(t, p.IsQueryParam)
			},
		},
		{
			name:  "boolean example",
			param: &model.Parameter{Name: "flag", In: model.InQuery, Type: model.TypeBoolean},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "true", p.Example)
				require.Equal(t, "Boolean", p.DataType)
			},
		},
		{
			name:  "long example",
			param: &model.Parameter{Name: "big", In: model.InQuery, Type: model.TypeInteger, Format: "int64"},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "789", p.Example)
				require.Equal(t, "Long", p.DataType)
			},
		},
		{
			name:  "integer example",
			param: &model.Parameter{Name: "page", In: model.InQuery, Type: model.TypeInteger},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "56", p.Example)
				require.True(t, p.IsInteger)
			},
		},
		{
			name:  "date example",
			param: &model.Parameter{Name: "day", In: model.InQuery, Type: model.TypeString, Format: "date"},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "2013-10-20", p.Example)
				require.True(t, p.IsDate)
			},
		},
		{
			name:  "date-time example",
			param: &model.Parameter{Name: "since", In: model.InHeader, Type: model.TypeString, Format: "date-time"},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "2013-10-20T19:20:30+01:00", p.Example)
				require.True(t, p.IsDateTime)
				require.True(t, p.IsHeaderParam)
			},
		},
		{
			name:  "file example",
			param: &model.Parameter{Name: "upload", In: model.InFormData, Type: model.TypeFile},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "/path/to/file.txt", p.Example)
				require.True(t, p.IsFile)
				require.False(t, p.NotFile)
				require.True(t, p.IsFormParam)
			},
		},
		{
			name: "x-example wins",
			param: &model.Parameter{
				Name: "page", In: model.InQuery, Type: model.TypeInteger,
				VendorExtensions: map[string]any{"x-example": 3},
			},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "3", p.Example)
			},
		},
		{
			name:  "array without items",
			param: &model.Parameter{Name: "arr", In: model.InQuery, Type: model.TypeArray},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "List<String>", p.DataType)
				require.Equal(t, "csv", p.CollectionFormat)
				require.True(t, p.IsListContainer)
			},
		},
		{
			name:  "object without items",
			param: &model.Parameter{Name: "meta", In: model.InQuery, Type: model.TypeObject},
			check: func(t *testing.T, p *Parameter) {
				require.Equal(t, "Map<String, String>", p.DataType)
				require.True(t, p.IsMapContainer)
			},
		},
		{
			name: "multi collection format",
			param: &model.Parameter{
				Name: "tags", In: model.InQuery, Type: model.TypeArray,
				Items: str(), CollectionFormat: "multi",
			},
			check: func(t *testing.T, p *Parameter) {
				require.True(t, p.IsCollectionFormatMulti)
				require.True(t, p.IsItemString)
			},
		},
		{
			name: "validation",
			param: &model.Parameter{
				Name: "lim", In: model.InQuery, Type: model.TypeInteger,
				Constraints: model.Constraints{Minimum: &minimum, MaxLength: &limit},
			},
			check: func(t *testing.T, p *Parameter) {
				require.True(t, p.HasValidation)
			},
		},
		{
			name:  "no validation",
			param: &model.Parameter{Name: "plain", In: model.InQuery, Type: model.TypeInteger},
			check: func(t *testing.T, p *Parameter) {
				require.False(t, p.HasValidation)
			},
		},
		{
			name:  "path params are required",
			param: &model.Parameter{Name: "petId", In: model.InPath, Type: model.TypeString},
			check: func(t *testing.T, p *Parameter) {
				require.True(t, p.Required)
				require.True(t, p.IsPathParam)
				require.Equal(t, "petId", p.ParamName)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCodegen(t)
			p, err := c.FromParameter(tt.param, ordered.NewSet[string]())
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestFromParameterBodyWithoutSchema(t *testing.T) {
	c := newTestCodegen(t)
	_, err := c.FromParameter(&model.Parameter{Name: "body", In: model.InBody}, ordered.NewSet[string]())

	var serr *StructuralError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "body", serr.Identity)
}
