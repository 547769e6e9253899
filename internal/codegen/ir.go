package codegen

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/kolah/apigen/internal/model"
	"github.com/kolah/apigen/internal/ordered"
)

// Model is the template-facing form of one definition.
//
// Vars is the single owner of the model's properties. The required/optional
// and readOnly/readWrite partitions are derived from the flags on each
// property, so a property can never sit in both halves of a pair.
type Model struct {
	Name                 string              `json:"name"`
	Classname            string              `json:"classname"`
	ClassVarName         string              `json:"classVarName"`
	ClassFilename        string              `json:"classFilename"`
	Title                string              `json:"title,omitempty"`
	Description          string              `json:"description,omitempty"`
	UnescapedDescription string              `json:"unescapedDescription,omitempty"`
	Parent               string              `json:"parent,omitempty"`
	ParentSchema         string              `json:"parentSchema,omitempty"`
	ParentModel          *Model              `json:"parentModel,omitempty"`
	Interfaces           []string            `json:"interfaces,omitempty"`
	InterfaceModels      []*Model            `json:"interfaceModels,omitempty"`
	Discriminator        string              `json:"discriminator,omitempty"`
	DataType             string              `json:"dataType,omitempty"`
	IsEnum               bool                `json:"isEnum"`
	IsArrayModel         bool                `json:"isArrayModel"`
	ArrayModelType       string              `json:"arrayModelType,omitempty"`
	AllowableValues      *AllowableValues    `json:"allowableValues,omitempty"`
	Vars                 []*Property         `json:"-"`
	AllVars              []*Property         `json:"-"`
	Mandatory            []string            `json:"mandatory"`
	AllMandatory         []string            `json:"allMandatory"`
	Imports              *ordered.Set[string] `json:"imports"`
	HasVars              bool                `json:"hasVars"`
	EmptyVars            bool                `json:"emptyVars"`
	HasEnums             bool                `json:"hasEnums"`
	HasRequired          bool                `json:"hasRequired"`
	HasOnlyReadOnly      bool                `json:"hasOnlyReadOnly"`
	HasChildren          bool                `json:"hasChildren"`
	HasMoreModels        bool                `json:"hasMoreModels"`
	ExternalDocs         *model.ExternalDocs `json:"externalDocs,omitempty"`
	VendorExtensions     map[string]any      `json:"vendorExtensions,omitempty"`
	ModelJSON            string              `json:"modelJson,omitempty"`
}

func (m *Model) RequiredVars() []*Property {
	return filterVars(m.Vars, func(p *Property) bool { return p.Required })
}

func (m *Model) OptionalVars() []*Property {
	return filterVars(m.Vars, func(p *Property) bool { return !p.Required })
}

func (m *Model) ReadOnlyVars() []*Property {
	return filterVars(m.Vars, func(p *Property) bool { return p.ReadOnly })
}

func (m *Model) ReadWriteVars() []*Property {
	return filterVars(m.Vars, func(p *Property) bool { return !p.ReadOnly })
}

func filterVars(vars []*Property, keep func(*Property) bool) []*Property {
	var out []*Property
	for _, v := range vars {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// listedProperty is a property as it appears in one rendered list.
type listedProperty struct {
	*Property
	HasMore            bool `json:"hasMore"`
	HasMoreNonReadOnly bool `json:"hasMoreNonReadOnly"`
}

func listProperties(props []*Property) []listedProperty {
	out := make([]listedProperty, len(props))
	for i, p := range props {
		out[i] = listedProperty{Property: p}
		if i+1 < len(props) {
			out[i].HasMore = true
			out[i].HasMoreNonReadOnly = !props[i+1].ReadOnly
		}
	}
	return out
}

func (m *Model) MarshalJSON() ([]byte, error) {
	type plain Model
	return json.Marshal(struct {
		*plain
		Vars          []listedProperty `json:"vars"`
		AllVars       []listedProperty `json:"allVars"`
		RequiredVars  []listedProperty `json:"requiredVars"`
		OptionalVars  []listedProperty `json:"optionalVars"`
		ReadOnlyVars  []listedProperty `json:"readOnlyVars"`
		ReadWriteVars []listedProperty `json:"readWriteVars"`
		HasOptional   bool             `json:"hasOptional"`
	}{
		plain:         (*plain)(m),
		Vars:          listProperties(m.Vars),
		AllVars:       listProperties(m.AllVars),
		RequiredVars:  listProperties(m.RequiredVars()),
		OptionalVars:  listProperties(m.OptionalVars()),
		ReadOnlyVars:  listProperties(m.ReadOnlyVars()),
		ReadWriteVars: listProperties(m.ReadWriteVars()),
		HasOptional:   len(m.OptionalVars()) > 0,
	})
}

// AllowableValues holds the enum values or numeric range of a schema.
type AllowableValues struct {
	Values   []any     `json:"values,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	EnumVars []EnumVar `json:"enumVars,omitempty"`
}

func (a *AllowableValues) empty() bool {
	return len(a.Values) == 0 && a.Min == nil && a.Max == nil
}

type EnumVar struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	HasMore bool   `json:"hasMore"`
}

// Property is the template-facing form of one schema property. Container
// properties describe their element in Items, recursively.
type Property struct {
	BaseName              string           `json:"baseName"`
	Name                  string           `json:"name"`
	NameInCamelCase       string           `json:"nameInCamelCase"`
	Getter                string           `json:"getter"`
	Setter                string           `json:"setter"`
	Title                 string           `json:"title,omitempty"`
	Description           string           `json:"description,omitempty"`
	UnescapedDescription  string           `json:"unescapedDescription,omitempty"`
	Datatype              string           `json:"datatype"`
	DatatypeWithEnum      string           `json:"datatypeWithEnum"`
	DataFormat            string           `json:"dataFormat,omitempty"`
	BaseType              string           `json:"baseType"`
	ComplexType           string           `json:"complexType,omitempty"`
	ContainerType         string           `json:"containerType,omitempty"`
	Items                 *Property        `json:"items,omitempty"`
	Required              bool             `json:"required"`
	ReadOnly              bool             `json:"isReadOnly"`
	IsInherited           bool             `json:"isInherited"`
	Example               string           `json:"example,omitempty"`
	DefaultValue          string           `json:"defaultValue,omitempty"`
	DefaultValueWithParam string           `json:"defaultValueWithParam,omitempty"`
	JSONSchema            string           `json:"jsonSchema,omitempty"`
	IsPrimitiveType       bool             `json:"isPrimitiveType"`
	IsContainer           bool             `json:"isContainer"`
	IsNotContainer        bool             `json:"isNotContainer"`
	IsListContainer       bool             `json:"isListContainer"`
	IsMapContainer        bool             `json:"isMapContainer"`
	IsString              bool             `json:"isString"`
	IsInteger             bool             `json:"isInteger"`
	IsLong                bool             `json:"isLong"`
	IsFloat               bool             `json:"isFloat"`
	IsDouble              bool             `json:"isDouble"`
	IsBoolean             bool             `json:"isBoolean"`
	IsDate                bool             `json:"isDate"`
	IsDateTime            bool             `json:"isDateTime"`
	IsUUID                bool             `json:"isUuid"`
	IsBinary              bool             `json:"isBinary"`
	IsByteArray           bool             `json:"isByteArray"`
	IsFile                bool             `json:"isFile"`
	IsEnum                bool             `json:"isEnum"`
	Enum                  []any            `json:"_enum,omitempty"`
	EnumName              string           `json:"enumName,omitempty"`
	AllowableValues       *AllowableValues `json:"allowableValues,omitempty"`
	HasValidation         bool             `json:"hasValidation"`
	Validation
	VendorExtensions map[string]any `json:"vendorExtensions,omitempty"`
}

// Validation carries the constraint keywords copied from the document.
type Validation struct {
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	MinLength        *int64   `json:"minLength,omitempty"`
	MaxLength        *int64   `json:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	MinItems         *int64   `json:"minItems,omitempty"`
	MaxItems         *int64   `json:"maxItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
}

func validationOf(c model.Constraints) Validation {
	return Validation(c)
}

func (v Validation) any() bool {
	return model.Constraints(v).HasNumericBounds() ||
		model.Constraints(v).HasStringBounds() ||
		model.Constraints(v).HasItemBounds() ||
		v.MultipleOf != nil
}

// MediaType is one entry of an operation's consumes or produces list.
type MediaType struct {
	MediaType string `json:"mediaType"`
	HasMore   bool   `json:"hasMore"`
}

type Example struct {
	ContentType string `json:"contentType"`
	Example     string `json:"example"`
}

// Operation is the template-facing form of one path operation. Each
// parameter partition holds its own copies of the entries in AllParams.
type Operation struct {
	OperationID           string               `json:"operationId"`
	OperationIDLowerCase  string               `json:"operationIdLowerCase"`
	Nickname              string               `json:"nickname"`
	BaseName              string               `json:"baseName"`
	Path                  string               `json:"path"`
	HTTPMethod            string               `json:"httpMethod"`
	Summary               string               `json:"summary,omitempty"`
	Notes                 string               `json:"notes,omitempty"`
	UnescapedNotes        string               `json:"unescapedNotes,omitempty"`
	Tags                  []string             `json:"tags,omitempty"`
	Deprecated            bool                 `json:"isDeprecated"`
	Consumes              []MediaType          `json:"consumes,omitempty"`
	Produces              []MediaType          `json:"produces,omitempty"`
	HasConsumes           bool                 `json:"hasConsumes"`
	HasProduces           bool                 `json:"hasProduces"`
	AllParams             []*Parameter         `json:"allParams"`
	BodyParams            []*Parameter         `json:"bodyParams"`
	PathParams            []*Parameter         `json:"pathParams"`
	QueryParams           []*Parameter         `json:"queryParams"`
	HeaderParams          []*Parameter         `json:"headerParams"`
	FormParams            []*Parameter         `json:"formParams"`
	CookieParams          []*Parameter         `json:"cookieParams"`
	BodyParam             *Parameter           `json:"bodyParam,omitempty"`
	HasParams             bool                 `json:"hasParams"`
	HasOptionalParams     bool                 `json:"hasOptionalParams"`
	Responses             []*Response          `json:"responses"`
	ResponseHeaders       []*Property          `json:"responseHeaders,omitempty"`
	ReturnType            string               `json:"returnType,omitempty"`
	ReturnBaseType        string               `json:"returnBaseType,omitempty"`
	ReturnContainer       string               `json:"returnContainer,omitempty"`
	ReturnSimpleType      bool                 `json:"returnSimpleType"`
	ReturnTypeIsPrimitive bool                 `json:"returnTypeIsPrimitive"`
	IsMapContainer        bool                 `json:"isMapContainer"`
	IsListContainer       bool                 `json:"isListContainer"`
	IsResponseBinary      bool                 `json:"isResponseBinary"`
	HasReference          bool                 `json:"hasReference"`
	DefaultResponse       string               `json:"defaultResponse,omitempty"`
	Discriminator         string               `json:"discriminator,omitempty"`
	Examples              []Example            `json:"examples,omitempty"`
	AuthMethods           []*Security          `json:"authMethods,omitempty"`
	HasAuthMethods        bool                 `json:"hasAuthMethods"`
	Imports               *ordered.Set[string] `json:"imports"`
	ExternalDocs          *model.ExternalDocs  `json:"externalDocs,omitempty"`
	VendorExtensions      map[string]any       `json:"vendorExtensions,omitempty"`
	HasMore               bool                 `json:"hasMore"`
}

// PathWithoutBaseName strips "/<baseName>" from the path.
func (o *Operation) PathWithoutBaseName() string {
	if o.BaseName == "" {
		return o.Path
	}
	return strings.ReplaceAll(o.Path, "/"+strings.ToLower(o.BaseName), "")
}

func (o *Operation) isMemberPath() bool {
	if len(o.PathParams) != 1 {
		return false
	}
	return "/{"+o.PathParams[0].BaseName+"}" == o.PathWithoutBaseName()
}

func (o *Operation) IsRestfulIndex() bool {
	return strings.EqualFold(o.HTTPMethod, "GET") && o.PathWithoutBaseName() == ""
}

func (o *Operation) IsRestfulShow() bool {
	return strings.EqualFold(o.HTTPMethod, "GET") && o.isMemberPath()
}

func (o *Operation) IsRestfulCreate() bool {
	return strings.EqualFold(o.HTTPMethod, "POST") && o.PathWithoutBaseName() == ""
}

func (o *Operation) IsRestfulUpdate() bool {
	m := strings.ToUpper(o.HTTPMethod)
	return (m == "PUT" || m == "PATCH") && o.isMemberPath()
}

func (o *Operation) IsRestfulDestroy() bool {
	return strings.EqualFold(o.HTTPMethod, "DELETE") && o.isMemberPath()
}

func (o *Operation) IsRestful() bool {
	return o.IsRestfulIndex() || o.IsRestfulShow() || o.IsRestfulCreate() ||
		o.IsRestfulUpdate() || o.IsRestfulDestroy()
}

func (o *Operation) MarshalJSON() ([]byte, error) {
	type plain Operation
	return json.Marshal(struct {
		*plain
		IsRestfulIndex   bool `json:"isRestfulIndex"`
		IsRestfulShow    bool `json:"isRestfulShow"`
		IsRestfulCreate  bool `json:"isRestfulCreate"`
		IsRestfulUpdate  bool `json:"isRestfulUpdate"`
		IsRestfulDestroy bool `json:"isRestfulDestroy"`
		IsRestful        bool `json:"isRestful"`
	}{
		plain:            (*plain)(o),
		IsRestfulIndex:   o.IsRestfulIndex(),
		IsRestfulShow:    o.IsRestfulShow(),
		IsRestfulCreate:  o.IsRestfulCreate(),
		IsRestfulUpdate:  o.IsRestfulUpdate(),
		IsRestfulDestroy: o.IsRestfulDestroy(),
		IsRestful:        o.IsRestful(),
	})
}

type Parameter struct {
	BaseName                string           `json:"baseName"`
	ParamName               string           `json:"paramName"`
	DataType                string           `json:"dataType"`
	DatatypeWithEnum        string           `json:"datatypeWithEnum,omitempty"`
	DataFormat              string           `json:"dataFormat,omitempty"`
	BaseType                string           `json:"baseType,omitempty"`
	CollectionFormat        string           `json:"collectionFormat,omitempty"`
	Description             string           `json:"description,omitempty"`
	UnescapedDescription    string           `json:"unescapedDescription,omitempty"`
	DefaultValue            string           `json:"defaultValue,omitempty"`
	Example                 string           `json:"example,omitempty"`
	JSONSchema              string           `json:"jsonSchema,omitempty"`
	Required                bool             `json:"required"`
	IsFormParam             bool             `json:"isFormParam"`
	IsQueryParam            bool             `json:"isQueryParam"`
	IsPathParam             bool             `json:"isPathParam"`
	IsHeaderParam           bool             `json:"isHeaderParam"`
	IsCookieParam           bool             `json:"isCookieParam"`
	IsBodyParam             bool             `json:"isBodyParam"`
	IsContainer             bool             `json:"isContainer"`
	IsListContainer         bool             `json:"isListContainer"`
	IsMapContainer          bool             `json:"isMapContainer"`
	IsCollectionFormatMulti bool             `json:"isCollectionFormatMulti"`
	IsPrimitiveType         bool             `json:"isPrimitiveType"`
	IsString                bool             `json:"isString"`
	IsInteger               bool             `json:"isInteger"`
	IsLong                  bool             `json:"isLong"`
	IsFloat                 bool             `json:"isFloat"`
	IsDouble                bool             `json:"isDouble"`
	IsBoolean               bool             `json:"isBoolean"`
	IsDate                  bool             `json:"isDate"`
	IsDateTime              bool             `json:"isDateTime"`
	IsBinary                bool             `json:"isBinary"`
	IsByteArray             bool             `json:"isByteArray"`
	IsFile                  bool             `json:"isFile"`
	NotFile                 bool             `json:"notFile"`
	IsItemString            bool             `json:"isItemString,omitempty"`
	IsItemInteger           bool             `json:"isItemInteger,omitempty"`
	IsItemLong              bool             `json:"isItemLong,omitempty"`
	IsItemFloat             bool             `json:"isItemFloat,omitempty"`
	IsItemDouble            bool             `json:"isItemDouble,omitempty"`
	IsItemBoolean           bool             `json:"isItemBoolean,omitempty"`
	IsItemDate              bool             `json:"isItemDate,omitempty"`
	IsItemDateTime          bool             `json:"isItemDateTime,omitempty"`
	IsItemByteArray         bool             `json:"isItemByteArray,omitempty"`
	IsEnum                  bool             `json:"isEnum"`
	Enum                    []any            `json:"_enum,omitempty"`
	AllowableValues         *AllowableValues `json:"allowableValues,omitempty"`
	Items                   *Property        `json:"items,omitempty"`
	HasValidation           bool             `json:"hasValidation"`
	Validation
	VendorExtensions map[string]any `json:"vendorExtensions,omitempty"`
	HasMore          bool           `json:"hasMore"`
}

// Copy returns an independent copy; list bookkeeping on the copy never
// reaches the original.
func (p *Parameter) Copy() *Parameter {
	cp := *p
	cp.Enum = slices.Clone(p.Enum)
	cp.VendorExtensions = maps.Clone(p.VendorExtensions)
	return &cp
}

// Response is one declared response. Code "0" stands for "default".
type Response struct {
	Code             string         `json:"code"`
	Message          string         `json:"message,omitempty"`
	IsDefault        bool           `json:"isDefault"`
	Schema           model.Property `json:"schema,omitempty"`
	DataType         string         `json:"dataType,omitempty"`
	BaseType         string         `json:"baseType,omitempty"`
	ContainerType    string         `json:"containerType,omitempty"`
	IsMapContainer   bool           `json:"isMapContainer"`
	IsListContainer  bool           `json:"isListContainer"`
	SimpleType       bool           `json:"simpleType"`
	PrimitiveType    bool           `json:"primitiveType"`
	IsBinary         bool           `json:"isBinary"`
	Headers          []*Property    `json:"headers,omitempty"`
	Examples         []Example      `json:"examples,omitempty"`
	JSONSchema       string         `json:"jsonSchema,omitempty"`
	VendorExtensions map[string]any `json:"vendorExtensions,omitempty"`
	HasMore          bool           `json:"hasMore"`
}

type Security struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	IsBasic          bool    `json:"isBasic"`
	IsOAuth          bool    `json:"isOAuth"`
	IsAPIKey         bool    `json:"isApiKey"`
	KeyParamName     string  `json:"keyParamName,omitempty"`
	IsKeyInQuery     bool    `json:"isKeyInQuery"`
	IsKeyInHeader    bool    `json:"isKeyInHeader"`
	Flow             string  `json:"flow,omitempty"`
	AuthorizationURL string  `json:"authorizationUrl,omitempty"`
	TokenURL         string  `json:"tokenUrl,omitempty"`
	Scopes           []Scope `json:"scopes,omitempty"`
	IsCode           bool    `json:"isCode"`
	IsPassword       bool    `json:"isPassword"`
	IsApplication    bool    `json:"isApplication"`
	IsImplicit       bool    `json:"isImplicit"`
	HasMore          bool    `json:"hasMore"`
}

type Scope struct {
	Scope       string `json:"scope"`
	Description string `json:"description"`
	HasMore     bool   `json:"hasMore"`
}

// SupportingFile is a static output driven by the target rather than the
// document. Global files resolve their template from the common template
// directory.
type SupportingFile struct {
	TemplateFile        string
	Folder              string
	DestinationFilename string
	Global              bool
}
