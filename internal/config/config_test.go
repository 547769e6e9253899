package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config",
			config:  Config{Spec: "petstore.yaml", Lang: "java", Output: "out"},
			wantErr: false,
		},
		{
			name:        "missing spec",
			config:      Config{Lang: "java", Output: "out"},
			wantErr:     true,
			errContains: "spec file is required",
		},
		{
			name:        "missing lang",
			config:      Config{Spec: "petstore.yaml", Output: "out"},
			wantErr:     true,
			errContains: "target language is required",
		},
		{
			name:        "missing output dir",
			config:      Config{Spec: "petstore.yaml", Lang: "go"},
			wantErr:     true,
			errContains: "output directory is required",
		},
		{
			name:        "negative workers",
			config:      Config{Spec: "petstore.yaml", Lang: "go", Output: "out", Workers: -1},
			wantErr:     true,
			errContains: "invalid workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					require.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{}
	BindFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "Debug logging")
	return cmd
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("spec", "petstore.yaml"))
	require.NoError(t, cmd.Flags().Set("lang", "go"))

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, ".", cfg.Output)
	require.True(t, cfg.SortParamsByRequiredFlag)
	require.True(t, cfg.EnsureUniqueParams)
	require.False(t, cfg.SkipOverwrite)
	require.True(t, cfg.Generate.ModelTests)
	require.True(t, cfg.Generate.APIDocs)
	require.Nil(t, cfg.Generate.Models)
	require.Nil(t, cfg.Generate.SupportingFiles)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, DefaultFile, `
spec: petstore.yaml
lang: java
output: ./out
library: httpclient
model-package: com.acme.model
ensure-unique-params: false
additional-properties:
  invokerPackage: com.acme
  hideGenerationTimestamp: true
type-mappings:
  DateTime: OffsetDateTime
generate:
  models: [Pet, Category]
  apis: []
  model-tests: false
workers: 4
`)

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldWd)

	cfg, err := Load(newCmd())
	require.NoError(t, err)

	require.Equal(t, "petstore.yaml", cfg.Spec)
	require.Equal(t, "java", cfg.Lang)
	require.Equal(t, "./out", cfg.Output)
	require.Equal(t, "httpclient", cfg.Library)
	require.Equal(t, "com.acme.model", cfg.ModelPackage)
	require.False(t, cfg.EnsureUniqueParams)
	require.True(t, cfg.SortParamsByRequiredFlag)
	require.Equal(t, "com.acme", cfg.AdditionalProperties["invokerPackage"])
	require.Equal(t, true, cfg.AdditionalProperties["hideGenerationTimestamp"])
	require.Equal(t, map[string]string{"DateTime": "OffsetDateTime"}, cfg.TypeMappings)
	require.Equal(t, []string{"Pet", "Category"}, cfg.Generate.Models)
	require.NotNil(t, cfg.Generate.APIs)
	require.Empty(t, cfg.Generate.APIs)
	require.Nil(t, cfg.Generate.SupportingFiles)
	require.False(t, cfg.Generate.ModelTests)
	require.True(t, cfg.Generate.ModelDocs)
	require.Equal(t, 4, cfg.Workers)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "custom.yaml", `
spec: petstore.yaml
lang: java
output: ./out
skip-overwrite: false
`)

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("lang", "go"))
	require.NoError(t, cmd.Flags().Set("skip-overwrite", "true"))
	require.NoError(t, cmd.Flags().Set("additional-properties", "packageName=petstore"))
	require.NoError(t, cmd.Flags().Set("supporting-files", "README.md"))

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "go", cfg.Lang)
	require.Equal(t, "./out", cfg.Output)
	require.True(t, cfg.SkipOverwrite)
	require.Equal(t, "petstore", cfg.AdditionalProperties["packageName"])
	require.Equal(t, []string{"README.md"}, cfg.Generate.SupportingFiles)
}

func TestLoadMissingConfigFile(t *testing.T) {
	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml")))

	_, err := Load(cmd)
	require.ErrorContains(t, err, "reading config file")
}

func TestBuildFlagsMap(t *testing.T) {
	cmd := newCmd()

	require.NoError(t, cmd.Flags().Set("spec", "test.yaml"))
	require.NoError(t, cmd.Flags().Set("output", "./out"))
	require.NoError(t, cmd.Flags().Set("model-tests", "false"))
	require.NoError(t, cmd.Flags().Set("models", "Pet,Tag"))
	require.NoError(t, cmd.Flags().Set("workers", "2"))
	require.NoError(t, cmd.Flags().Set("verbose", "true"))

	m := buildFlagsMap(cmd)

	require.Equal(t, "test.yaml", m["spec"])
	require.Equal(t, "./out", m["output"])
	require.Equal(t, false, m["generate.model-tests"])
	require.Equal(t, []string{"Pet", "Tag"}, m["generate.models"])
	require.Equal(t, 2, m["workers"])
	require.Equal(t, true, m["verbose"])
	require.NotContains(t, m, "lang")
	require.NotContains(t, m, "generate.api-docs")
}
