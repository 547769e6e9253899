package model

import (
	"strings"

	"github.com/kolah/apigen/internal/ordered"
)

// Document is a Swagger 2.0 API description. Definitions is mutated by the
// inline resolver and treated as read-only afterwards.
type Document struct {
	Swagger             string
	Info                Info
	Host                string
	BasePath            string
	Schemes             []string
	Consumes            []string
	Produces            []string
	Paths               *ordered.Map[string, *Path]
	Definitions         *ordered.Map[string, Model]
	SecurityDefinitions *ordered.Map[string, *SecurityScheme]
	Security            []SecurityRequirement
	Tags                []Tag
	ExternalDocs        *ExternalDocs
	VendorExtensions    map[string]any
}

// NewDocument returns a document with empty ordered collections.
func NewDocument() *Document {
	return &Document{
		Swagger:             "2.0",
		Paths:               ordered.NewMap[string, *Path](),
		Definitions:         ordered.NewMap[string, Model](),
		SecurityDefinitions: ordered.NewMap[string, *SecurityScheme](),
	}
}

const definitionsPrefix = "#/definitions/"

// SimpleRef strips the "#/definitions/" prefix from a reference.
func SimpleRef(ref string) string {
	if strings.HasPrefix(ref, definitionsPrefix) {
		return ref[len(definitionsPrefix):]
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 && strings.HasPrefix(ref, "#/") {
		return ref[i+1:]
	}
	return ref
}

// DefinitionRef returns the "#/definitions/<name>" reference for name.
func DefinitionRef(name string) string {
	return definitionsPrefix + name
}

// Definition returns a model by its $ref path or simple name.
// Returns nil if the model is not found.
func (d *Document) Definition(ref string) Model {
	if d == nil || d.Definitions == nil {
		return nil
	}
	m, _ := d.Definitions.Get(SimpleRef(ref))
	return m
}

// AddDefinition registers or replaces a top-level model.
func (d *Document) AddDefinition(name string, m Model) {
	if d.Definitions == nil {
		d.Definitions = ordered.NewMap[string, Model]()
	}
	d.Definitions.Set(name, m)
}

type Info struct {
	Title          string
	Description    string
	Version        string
	TermsOfService string
	Contact        *Contact
	License        *License
}

type Contact struct {
	Name  string
	URL   string
	Email string
}

type License struct {
	Name string
	URL  string
}

type Tag struct {
	Name         string
	Description  string
	ExternalDocs *ExternalDocs
}

type ExternalDocs struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type SecuritySchemeType string

const (
	SecurityAPIKey SecuritySchemeType = "apiKey"
	SecurityBasic  SecuritySchemeType = "basic"
	SecurityOAuth2 SecuritySchemeType = "oauth2"
)

type SecurityScheme struct {
	Type             SecuritySchemeType
	Description      string
	Name             string
	In               string
	Flow             string
	AuthorizationURL string
	TokenURL         string
	Scopes           *ordered.Map[string, string]
	VendorExtensions map[string]any
}

// SecurityRequirement is one alternative of a security declaration: every
// listed scheme must be satisfied.
type SecurityRequirement []SecurityScope

type SecurityScope struct {
	Name   string
	Scopes []string
}
