package cli

import (
	"fmt"

	"github.com/kolah/apigen/internal/codegen"
	"github.com/kolah/apigen/internal/targets"
	"github.com/spf13/cobra"
)

func LangsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the available target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range targets.Names() {
				lang, err := targets.Lookup(name)
				if err != nil {
					return err
				}
				cmd.Printf("%-8s %s\n", name, lang.Help())
			}
			return nil
		},
	}
}

func ConfigHelpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-help <lang>",
		Short: "Show the libraries and defaults of a target language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := targets.Lookup(args[0])
			if err != nil {
				return err
			}
			c, err := codegen.New(lang, codegen.DefaultOptions(), newLogger(cmd, false))
			if err != nil {
				return fmt.Errorf("configuring %s: %w", args[0], err)
			}
			cfg := c.Config()

			cmd.Printf("%s: %s\n\n", lang.Name(), lang.Help())
			cmd.Printf("model-package: %s\n", cfg.ModelPackage)
			cmd.Printf("api-package:   %s\n", cfg.APIPackage)
			if cfg.SupportedLibraries.Len() > 0 {
				cmd.Println("\nlibraries:")
				for name, desc := range cfg.SupportedLibraries.All() {
					marker := " "
					if name == cfg.Library {
						marker = "*"
					}
					cmd.Printf(" %s %-12s %s\n", marker, name, desc)
				}
			}
			return nil
		},
	}
}
