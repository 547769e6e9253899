package codegen

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/kolah/apigen/internal/ordered"
)

// Keys recognised in AdditionalProperties.
const (
	KeyTemplateDir              = "templateDir"
	KeyModelPackage             = "modelPackage"
	KeyAPIPackage               = "apiPackage"
	KeySortParamsByRequiredFlag = "sortParamsByRequiredFlag"
	KeyEnsureUniqueParams       = "ensureUniqueParams"
	KeyModelNamePrefix          = "modelNamePrefix"
	KeyModelNameSuffix          = "modelNameSuffix"
	KeySupportsInheritance      = "supportsInheritance"
	KeyHideGenerationTimestamp  = "hideGenerationTimestamp"
	KeyLibrary                  = "library"
)

// Options are the user-facing knobs of one generation run.
type Options struct {
	OutputDir       string
	TemplateDir     string
	Library         string
	ModelPackage    string
	APIPackage      string
	ModelNamePrefix string
	ModelNameSuffix string

	SortParamsByRequiredFlag bool
	EnsureUniqueParams       bool
	SupportsInheritance      bool
	SkipOverwrite            bool
	AddIgnoreFile            bool
	AddLicenseFile           bool
	HideGenerationTimestamp  bool

	AdditionalProperties  map[string]any
	TypeMappings          map[string]string
	ImportMappings        map[string]string
	InstantiationMappings map[string]string
	// ExtraPrimitives are added to the target's language primitives.
	ExtraPrimitives []string
}

func DefaultOptions() Options {
	return Options{
		OutputDir:                ".",
		SortParamsByRequiredFlag: true,
		EnsureUniqueParams:       true,
		AddIgnoreFile:            true,
		AddLicenseFile:           true,
	}
}

// Config is the resolved target configuration: user options plus the
// tables a Language fills in.
type Config struct {
	Options

	EmbeddedTemplateDir string
	CommonTemplateDir   string
	SourceFolder        string
	TestFolder          string
	APIDocPath          string
	ModelDocPath        string

	TypeMapping        map[string]string
	ImportMapping      map[string]string
	InstantiationTypes map[string]string

	DefaultIncludes            *ordered.Set[string]
	LanguageSpecificPrimitives *ordered.Set[string]
	reservedWords              *ordered.Set[string]

	// Template maps go from template file to output suffix.
	ModelTemplateFiles     *ordered.Map[string, string]
	APITemplateFiles       *ordered.Map[string, string]
	ModelTestTemplateFiles *ordered.Map[string, string]
	APITestTemplateFiles   *ordered.Map[string, string]
	ModelDocTemplateFiles  *ordered.Map[string, string]
	APIDocTemplateFiles    *ordered.Map[string, string]

	SupportingFiles    []SupportingFile
	SupportedLibraries *ordered.Map[string, string]
}

func newConfig(opts Options) *Config {
	cfg := &Config{
		Options:           opts,
		CommonTemplateDir: "_common",
		TypeMapping: map[string]string{
			"array":     "List",
			"map":       "Map",
			"List":      "List",
			"boolean":   "Boolean",
			"string":    "String",
			"int":       "Integer",
			"float":     "Float",
			"number":    "BigDecimal",
			"DateTime":  "Date",
			"long":      "Long",
			"short":     "Short",
			"char":      "String",
			"double":    "Double",
			"object":    "Object",
			"integer":   "Integer",
			"ByteArray": "byte[]",
			"binary":    "byte[]",
		},
		ImportMapping: map[string]string{
			"BigDecimal":    "java.math.BigDecimal",
			"UUID":          "java.util.UUID",
			"File":          "java.io.File",
			"Date":          "java.util.Date",
			"Timestamp":     "java.sql.Timestamp",
			"Map":           "java.util.Map",
			"HashMap":       "java.util.HashMap",
			"Array":         "java.util.List",
			"ArrayList":     "java.util.ArrayList",
			"List":          "java.util.*",
			"Set":           "java.util.*",
			"DateTime":      "org.joda.time.*",
			"LocalDateTime": "org.joda.time.*",
			"LocalDate":     "org.joda.time.*",
			"LocalTime":     "org.joda.time.*",
		},
		InstantiationTypes: map[string]string{},
		DefaultIncludes: ordered.NewSet(
			"double", "int", "long", "short", "char", "float", "String",
			"boolean", "Boolean", "Double", "Void", "Integer", "Long", "Float",
		),
		LanguageSpecificPrimitives: ordered.NewSet[string](),
		reservedWords:              ordered.NewSet[string](),
		ModelTemplateFiles:         ordered.NewMap[string, string](),
		APITemplateFiles:           ordered.NewMap[string, string](),
		ModelTestTemplateFiles:     ordered.NewMap[string, string](),
		APITestTemplateFiles:       ordered.NewMap[string, string](),
		ModelDocTemplateFiles:      ordered.NewMap[string, string](),
		APIDocTemplateFiles:        ordered.NewMap[string, string](),
		SupportedLibraries:         ordered.NewMap[string, string](),
	}
	cfg.AdditionalProperties = maps.Clone(opts.AdditionalProperties)
	if cfg.AdditionalProperties == nil {
		cfg.AdditionalProperties = make(map[string]any)
	}
	return cfg
}

// SetReservedWords replaces the reserved word set. Words are matched
// case-insensitively.
func (c *Config) SetReservedWords(words ...string) {
	c.reservedWords = ordered.NewSet[string]()
	for _, w := range words {
		c.reservedWords.Add(strings.ToLower(w))
	}
}

func (c *Config) AddReservedWords(words ...string) {
	for _, w := range words {
		c.reservedWords.Add(strings.ToLower(w))
	}
}

func (c *Config) IsReservedWord(word string) bool {
	return word != "" && c.reservedWords.Has(strings.ToLower(word))
}

// applyAdditionalProperties lets additionalProperties override the
// matching typed options.
func (c *Config) applyAdditionalProperties() error {
	props := c.AdditionalProperties
	strOpts := map[string]*string{
		KeyTemplateDir:     &c.TemplateDir,
		KeyModelPackage:    &c.ModelPackage,
		KeyAPIPackage:      &c.APIPackage,
		KeyModelNamePrefix: &c.ModelNamePrefix,
		KeyModelNameSuffix: &c.ModelNameSuffix,
		KeyLibrary:         &c.Library,
	}
	for key, dst := range strOpts {
		if v, ok := props[key]; ok {
			*dst = fmt.Sprint(v)
		}
	}
	boolOpts := map[string]*bool{
		KeySortParamsByRequiredFlag: &c.SortParamsByRequiredFlag,
		KeyEnsureUniqueParams:       &c.EnsureUniqueParams,
		KeySupportsInheritance:      &c.SupportsInheritance,
		KeyHideGenerationTimestamp:  &c.HideGenerationTimestamp,
	}
	for key, dst := range boolOpts {
		v, ok := props[key]
		if !ok {
			continue
		}
		b, err := asBool(v)
		if err != nil {
			return fmt.Errorf("additional property %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

func asBool(v any) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	}
	return false, fmt.Errorf("expected boolean, got %T", v)
}

// Codegen converts normalized document nodes into IR using one target
// Language. It holds no per-run state and is safe for concurrent use once
// built.
type Codegen struct {
	cfg    *Config
	lang   Language
	logger *slog.Logger
}

// New resolves opts against the defaults and the target language.
func New(lang Language, opts Options, logger *slog.Logger) (*Codegen, error) {
	if lang == nil {
		return nil, fmt.Errorf("codegen: nil language")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := newConfig(opts)
	if err := cfg.applyAdditionalProperties(); err != nil {
		return nil, err
	}

	lang.Configure(cfg)

	maps.Copy(cfg.TypeMapping, opts.TypeMappings)
	maps.Copy(cfg.ImportMapping, opts.ImportMappings)
	maps.Copy(cfg.InstantiationTypes, opts.InstantiationMappings)
	for _, p := range opts.ExtraPrimitives {
		cfg.LanguageSpecificPrimitives.Add(p)
	}

	if cfg.Library != "" && cfg.SupportedLibraries.Len() > 0 && !cfg.SupportedLibraries.Has(cfg.Library) {
		return nil, fmt.Errorf("unknown library %q for %s, supported: %s",
			cfg.Library, lang.Name(), strings.Join(cfg.SupportedLibraries.Keys(), ", "))
	}

	cfg.AdditionalProperties[KeyModelPackage] = cfg.ModelPackage
	cfg.AdditionalProperties[KeyAPIPackage] = cfg.APIPackage
	cfg.AdditionalProperties[KeySortParamsByRequiredFlag] = cfg.SortParamsByRequiredFlag
	cfg.AdditionalProperties[KeyEnsureUniqueParams] = cfg.EnsureUniqueParams
	cfg.AdditionalProperties[KeySupportsInheritance] = cfg.SupportsInheritance
	if cfg.Library != "" {
		cfg.AdditionalProperties[KeyLibrary] = cfg.Library
	}

	return &Codegen{cfg: cfg, lang: lang, logger: logger.With("lang", lang.Name())}, nil
}

func (c *Codegen) Config() *Config { return c.cfg }
func (c *Codegen) Language() Language { return c.lang }
func (c *Codegen) Logger() *slog.Logger { return c.logger }
