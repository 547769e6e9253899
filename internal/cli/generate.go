package cli

import (
	"fmt"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/config"
	"github.com/kolah/apigen/internal/generator"
	"github.com/kolah/apigen/internal/loader"
	"github.com/kolah/apigen/internal/targets"
	"github.com/kolah/apigen/templates"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate code from a Swagger 2.0 document",
		RunE:  runGenerate,
	}

	config.BindFlags(cmd)
	cmd.Flags().Bool("debug-models", false, "Log the model views")
	cmd.Flags().Bool("debug-operations", false, "Log the api views")
	cmd.Flags().Bool("debug-supporting-files", false, "Log the supporting files view")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg.Verbose)

	result, err := loader.LoadFile(cfg.Spec)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	doc, err := loader.Transform(result)
	if err != nil {
		return fmt.Errorf("transforming spec: %w", err)
	}
	logger.Info("loaded document", "version", result.Version, "title", doc.Info.Title,
		"definitions", doc.Definitions.Len(), "paths", doc.Paths.Len())

	lang, err := targets.Lookup(cfg.Lang)
	if err != nil {
		return err
	}
	c, err := codegen.New(lang, options(cfg), logger)
	if err != nil {
		return fmt.Errorf("configuring %s: %w", cfg.Lang, err)
	}

	debugModels, _ := cmd.Flags().GetBool("debug-models")
	debugOperations, _ := cmd.Flags().GetBool("debug-operations")
	debugSupporting, _ := cmd.Flags().GetBool("debug-supporting-files")

	gen := generator.New(generator.Input{
		Document:  doc,
		Codegen:   c,
		Templates: templates.FS,
		Selection: generator.Selection{
			Models:          cfg.Generate.Models,
			APIs:            cfg.Generate.APIs,
			SupportingFiles: cfg.Generate.SupportingFiles,
		},
		SkipModelTests: !cfg.Generate.ModelTests,
		SkipModelDocs:  !cfg.Generate.ModelDocs,
		SkipAPITests:   !cfg.Generate.APITests,
		SkipAPIDocs:    !cfg.Generate.APIDocs,
		Workers:        cfg.Workers,
		Debug: generator.Debug{
			Models:          debugModels,
			Operations:      debugOperations,
			SupportingFiles: debugSupporting,
		},
		Logger: logger,
	})

	files, err := gen.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}
	for _, f := range files {
		logger.Debug("written", "path", f)
	}
	logger.Info("generation finished", "lang", cfg.Lang, "files", len(files), "output", cfg.Output)
	return nil
}

func options(cfg *config.Config) codegen.Options {
	opts := codegen.DefaultOptions()
	opts.OutputDir = cfg.Output
	opts.TemplateDir = cfg.TemplateDir
	opts.Library = cfg.Library
	opts.ModelPackage = cfg.ModelPackage
	opts.APIPackage = cfg.APIPackage
	opts.ModelNamePrefix = cfg.ModelNamePrefix
	opts.ModelNameSuffix = cfg.ModelNameSuffix
	opts.SortParamsByRequiredFlag = cfg.SortParamsByRequiredFlag
	opts.EnsureUniqueParams = cfg.EnsureUniqueParams
	opts.SupportsInheritance = cfg.SupportsInheritance
	opts.SkipOverwrite = cfg.SkipOverwrite
	opts.AdditionalProperties = cfg.AdditionalProperties
	opts.TypeMappings = cfg.TypeMappings
	opts.ImportMappings = cfg.ImportMappings
	opts.InstantiationMappings = cfg.InstantiationTypes
	opts.ExtraPrimitives = cfg.LanguageSpecificPrimitives
	return opts
}
