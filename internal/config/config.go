package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

const DefaultFile = "apigen.yaml"

type Config struct {
	Spec            string `koanf:"spec"`
	Lang            string `koanf:"lang"`
	Output          string `koanf:"output"`
	TemplateDir     string `koanf:"template-dir"`
	Library         string `koanf:"library"`
	ModelPackage    string `koanf:"model-package"`
	APIPackage      string `koanf:"api-package"`
	ModelNamePrefix string `koanf:"model-name-prefix"`
	ModelNameSuffix string `koanf:"model-name-suffix"`

	SortParamsByRequiredFlag bool `koanf:"sort-params-by-required-flag"`
	EnsureUniqueParams       bool `koanf:"ensure-unique-params"`
	SupportsInheritance      bool `koanf:"supports-inheritance"`
	SkipOverwrite            bool `koanf:"skip-overwrite"`

	AdditionalProperties       map[string]any    `koanf:"additional-properties"`
	TypeMappings               map[string]string `koanf:"type-mappings"`
	ImportMappings             map[string]string `koanf:"import-mappings"`
	InstantiationTypes         map[string]string `koanf:"instantiation-types"`
	LanguageSpecificPrimitives []string          `koanf:"language-specific-primitives"`

	Generate GenerateConfig `koanf:"generate"`
	Workers  int            `koanf:"workers"`
	Verbose  bool           `koanf:"verbose"`
}

// GenerateConfig selects what a run writes. A nil list means everything in
// that phase; an empty list set explicitly also means everything but turns
// the selection on, which skips the phases that have no list.
type GenerateConfig struct {
	Models          []string `koanf:"models"`
	APIs            []string `koanf:"apis"`
	SupportingFiles []string `koanf:"supporting-files"`
	ModelTests      bool     `koanf:"model-tests"`
	ModelDocs       bool     `koanf:"model-docs"`
	APITests        bool     `koanf:"api-tests"`
	APIDocs         bool     `koanf:"api-docs"`
}

func defaults() map[string]any {
	return map[string]any{
		"output":                       ".",
		"sort-params-by-required-flag": true,
		"ensure-unique-params":         true,
		"generate.model-tests":         true,
		"generate.model-docs":          true,
		"generate.api-tests":           true,
		"generate.api-docs":            true,
	}
}

// BindFlags binds the generation flags to cmd.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("spec", "i", "", "Swagger 2.0 or OpenAPI 3 document path")
	flags.StringP("lang", "l", "", "Target language")
	flags.StringP("output", "o", "", "Output directory (default: .)")
	flags.StringP("template-dir", "t", "", "Directory searched for templates before the built-ins")
	flags.String("library", "", "Library template variant of the target")
	flags.String("model-package", "", "Package of generated models")
	flags.String("api-package", "", "Package of generated apis")
	flags.String("model-name-prefix", "", "Prefix added to model names")
	flags.String("model-name-suffix", "", "Suffix added to model names")
	flags.Bool("sort-params-by-required-flag", true, "List required parameters before optional ones")
	flags.Bool("ensure-unique-params", true, "Rename parameters that share a name")
	flags.Bool("supports-inheritance", false, "Link parent and child models")
	flags.BoolP("skip-overwrite", "s", false, "Do not overwrite existing files")
	flags.StringToString("additional-properties", nil, "Template properties as key=value")
	flags.StringToString("type-mappings", nil, "Type mappings as swaggerType=targetType")
	flags.StringToString("import-mappings", nil, "Import mappings as type=import")
	flags.StringToString("instantiation-types", nil, "Instantiation types as container=type")
	flags.StringSlice("language-specific-primitives", nil, "Extra types treated as primitives")
	flags.StringSlice("models", nil, "Models to generate (empty value: all)")
	flags.StringSlice("apis", nil, "Apis to generate by tag (empty value: all)")
	flags.StringSlice("supporting-files", nil, "Supporting files to generate (empty value: all)")
	flags.Bool("model-tests", true, "Generate model tests")
	flags.Bool("model-docs", true, "Generate model docs")
	flags.Bool("api-tests", true, "Generate api tests")
	flags.Bool("api-docs", true, "Generate api docs")
	flags.Int("workers", 0, "Concurrent IR workers (default: GOMAXPROCS)")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// a key given with no entries still turns the selection on
	for key, list := range map[string]*[]string{
		"generate.models":           &cfg.Generate.Models,
		"generate.apis":             &cfg.Generate.APIs,
		"generate.supporting-files": &cfg.Generate.SupportingFiles,
	} {
		if k.Exists(key) && *list == nil {
			*list = []string{}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var flagKeys = map[string]string{
	"spec":                         "spec",
	"lang":                         "lang",
	"output":                       "output",
	"template-dir":                 "template-dir",
	"library":                      "library",
	"model-package":                "model-package",
	"api-package":                  "api-package",
	"model-name-prefix":            "model-name-prefix",
	"model-name-suffix":            "model-name-suffix",
	"sort-params-by-required-flag": "sort-params-by-required-flag",
	"ensure-unique-params":         "ensure-unique-params",
	"supports-inheritance":         "supports-inheritance",
	"skip-overwrite":               "skip-overwrite",
	"additional-properties":        "additional-properties",
	"type-mappings":                "type-mappings",
	"import-mappings":              "import-mappings",
	"instantiation-types":          "instantiation-types",
	"language-specific-primitives": "language-specific-primitives",
	"models":                       "generate.models",
	"apis":                         "generate.apis",
	"supporting-files":             "generate.supporting-files",
	"model-tests":                  "generate.model-tests",
	"model-docs":                   "generate.model-docs",
	"api-tests":                    "generate.api-tests",
	"api-docs":                     "generate.api-docs",
	"workers":                      "workers",
	"verbose":                      "verbose",
}

// buildFlagsMap collects the flags set on the command line under their
// config keys, so unset flags never mask the config file.
func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)
	flags := cmd.Flags()

	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		var (
			v   any
			err error
		)
		switch f.Value.Type() {
		case "string":
			v, err = flags.GetString(name)
		case "bool":
			v, err = flags.GetBool(name)
		case "int":
			v, err = flags.GetInt(name)
		case "stringSlice":
			v, err = flags.GetStringSlice(name)
		case "stringToString":
			var kv map[string]string
			kv, err = flags.GetStringToString(name)
			v = stringMap(kv)
		default:
			continue
		}
		if err == nil {
			m[key] = v
		}
	}
	return m
}

// stringMap widens kv so confmap unflattens it like a YAML mapping.
func stringMap(kv map[string]string) map[string]any {
	out := make(map[string]any, len(kv))
	for k, v := range kv {
		out[k] = v
	}
	return out
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.Lang == "" {
		return fmt.Errorf("target language is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be >= 0)", c.Workers)
	}
	return nil
}
