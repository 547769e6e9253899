package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
)

type Result struct {
	Document *libopenapi.DocumentModel[v2.Swagger]
	// Version is the version of the input file; 3.x inputs are converted.
	Version  string
	Warnings []string
	RawData  []byte
}

func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return loadWithConfig(data, config)
}

// Load parses an in-memory document without file reference support.
func Load(data []byte) (*Result, error) {
	return loadWithConfig(data, nil)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration) (*Result, error) {
	doc, err := newDocument(data, config)
	if err != nil {
		return nil, err
	}

	version := doc.GetVersion()
	result := &Result{Version: version, RawData: data}

	switch {
	case strings.HasPrefix(version, "2."):
	case strings.HasPrefix(version, "3."):
		converted, err := downgrade(data)
		if err != nil {
			return nil, err
		}
		doc, err = newDocument(converted, config)
		if err != nil {
			return nil, fmt.Errorf("reading converted document: %w", err)
		}
		result.RawData = converted
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("OpenAPI %s converted to Swagger 2.0; features without a 2.0 equivalent are dropped", version))
	default:
		return nil, fmt.Errorf("unsupported document version: %q (only 2.0 and 3.x supported)", version)
	}

	model, err := doc.BuildV2Model()
	if err != nil {
		return nil, fmt.Errorf("building Swagger model: %w", err)
	}
	result.Document = model

	return result, nil
}

func newDocument(data []byte, config *datamodel.DocumentConfiguration) (libopenapi.Document, error) {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing API document: %w", err)
	}
	return doc, nil
}

// downgrade converts an OpenAPI 3 document to Swagger 2.0 JSON.
func downgrade(data []byte) ([]byte, error) {
	loader := openapi3.NewLoader()
	doc3, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading OpenAPI 3 document: %w", err)
	}
	doc2, err := openapi2conv.FromV3(doc3)
	if err != nil {
		return nil, fmt.Errorf("converting to Swagger 2.0: %w", err)
	}
	out, err := json.Marshal(doc2)
	if err != nil {
		return nil, fmt.Errorf("encoding converted document: %w", err)
	}
	return out, nil
}
