package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kolah/apigen/internal/model"
	"github.com/stretchr/testify/require"
)

const petstore = `
swagger: "2.0"
info:
  title: Petstore
  version: 1.0.0
  license:
    name: MIT
host: petstore.example.com
basePath: /v1
schemes: [https]
produces: [application/json]
securityDefinitions:
  api_key:
    type: apiKey
    name: X-API-Key
    in: header
security:
  - api_key: []
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        type: string
    get:
      operationId: showPetById
      tags: [pets]
      parameters:
        - name: verbose
          in: query
          type: boolean
      responses:
        "200":
          description: A pet
          schema:
            $ref: "#/definitions/Pet"
        default:
          description: Error
          schema:
            $ref: "#/definitions/Error"
definitions:
  Pet:
    type: object
    required: [id, name]
    properties:
      id:
        type: integer
        format: int64
      name:
        type: string
        maxLength: 64
      tags:
        type: array
        items:
          type: string
      status:
        type: string
        enum: [available, sold]
  Error:
    type: object
    properties:
      code:
        type: integer
        format: int32
`

func TestLoadAndTransform(t *testing.T) {
	result, err := Load([]byte(petstore))
	require.NoError(t, err)
	require.Equal(t, "2.0", result.Version)

	doc, err := Transform(result)
	require.NoError(t, err)

	require.Equal(t, "Petstore", doc.Info.Title)
	require.Equal(t, "MIT", doc.Info.License.Name)
	require.Equal(t, "petstore.example.com", doc.Host)
	require.Equal(t, []string{"Pet", "Error"}, doc.Definitions.Keys())

	pet, ok := doc.Definition("#/definitions/Pet").(*model.ModelImpl)
	require.True(t, ok)
	require.Equal(t, []string{"id", "name", "tags", "status"}, pet.Properties.Keys())

	id := pet.Properties.Value("id").(*model.PrimitiveProperty)
	require.Equal(t, "integer", id.Type)
	require.Equal(t, "int64", id.Format)
	require.True(t, id.Required)

	name := pet.Properties.Value("name").(*model.PrimitiveProperty)
	require.NotNil(t, name.MaxLength)
	require.Equal(t, int64(64), *name.MaxLength)

	tags := pet.Properties.Value("tags").(*model.ArrayProperty)
	require.IsType(t, &model.PrimitiveProperty{}, tags.Items)
	require.False(t, tags.Required)

	status := pet.Properties.Value("status").(*model.PrimitiveProperty)
	require.Equal(t, []any{"available", "sold"}, status.Enum)

	path, ok := doc.Paths.Get("/pets/{petId}")
	require.True(t, ok)
	require.NotNil(t, path.Get)
	op := path.Get
	require.Equal(t, "showPetById", op.OperationID)
	require.Len(t, op.Parameters, 2)
	require.Equal(t, "verbose", op.Parameters[0].Name)
	require.Equal(t, "petId", op.Parameters[1].Name)
	require.True(t, op.Parameters[1].Required)

	require.Equal(t, []string{"200", "default"}, op.Responses.Keys())
	ok200 := op.Responses.Value("200")
	ref, ok := ok200.Schema.(*model.RefProperty)
	require.True(t, ok)
	require.Equal(t, "Pet", ref.SimpleRef())

	scheme, ok := doc.SecurityDefinitions.Get("api_key")
	require.True(t, ok)
	require.Equal(t, model.SecurityAPIKey, scheme.Type)
	require.Equal(t, "header", scheme.In)
	require.Len(t, doc.Security, 1)
	require.Equal(t, "api_key", doc.Security[0][0].Name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstore), 0o644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading spec file")
}

func TestLoadOpenAPI3IsConverted(t *testing.T) {
	const spec = `
openapi: 3.0.3
info:
  title: Converted
  version: "1"
paths:
  /items:
    get:
      operationId: listItems
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Item"
components:
  schemas:
    Item:
      type: object
      properties:
        id:
          type: string
`
	result, err := Load([]byte(spec))
	require.NoError(t, err)
	require.Equal(t, "3.0.3", result.Version)
	require.NotEmpty(t, result.Warnings)

	doc, err := Transform(result)
	require.NoError(t, err)
	require.True(t, doc.Definitions.Has("Item"))

	path, ok := doc.Paths.Get("/items")
	require.True(t, ok)
	require.Equal(t, "listItems", path.Get.OperationID)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	_, err := Load([]byte("swagger: \"1.2\"\ninfo:\n  title: old\n"))
	require.Error(t, err)
}
