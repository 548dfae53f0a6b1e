// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bascanada/seclog/pkg/config"
	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage field catalogs",
}

var useCatalogCmd = &cobra.Command{
	Use:               "use [catalog]",
	Short:             "Set the current catalog",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCatalogs,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if _, ok := cfg.Catalogs[name]; !ok {
			fmt.Fprintf(os.Stderr, "Error: catalog '%s' not found.\n", name)
			os.Exit(1)
		}

		if err := config.SaveState(&config.State{CurrentCatalog: name}); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to catalog \"%s\".\n", name)
	},
}

var listCatalogsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available catalogs",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listCatalogs(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var fieldsCatalogCmd = &cobra.Command{
	Use:    "fields",
	Short:  "Display the fields of the current catalog",
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listFields(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func listCatalogs(cmd *cobra.Command) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	current := currentCatalog()
	if current == "" {
		current = defaultCatalogName(cfg)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CURRENT\tNAME\tFIELDS\tDESCRIPTION")
	for _, name := range cfg.Names() {
		cat := cfg.Catalogs[name]
		prefix := " "
		if name == current {
			prefix = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", prefix, name, len(cat.Items), cat.Description)
	}
	return w.Flush()
}

func listFields(cmd *cobra.Command) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FIELD\tEXPRESSIONS\tLOCAL\tDESCRIPTION")
	for _, f := range s.Fields {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Key, keys(f.Expressions), keys(f.LocalExpressions), f.Description)
	}
	return w.Flush()
}

func keys(ds []expression.Descriptor) string {
	if len(ds) == 0 {
		return "-"
	}
	return strings.Join(expression.Keys(ds), " ")
}

func init() {
	catalogCmd.AddCommand(useCatalogCmd)
	catalogCmd.AddCommand(listCatalogsCmd)
	catalogCmd.AddCommand(fieldsCatalogCmd)
	rootCmd.AddCommand(catalogCmd)
}
