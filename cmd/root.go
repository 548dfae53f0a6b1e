// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/bascanada/seclog/pkg/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:    "seclog",
	Short:  "Inline query builder for security log searches",
	Long:   ``,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		// Check if a catalog file exists before showing generic help
		if config.ResolvePath(configPath) == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Welcome to seclog!")
			fmt.Fprintln(cmd.OutOrStdout(), "\nNo catalog file found, the built-in security catalog is used.")
			fmt.Fprintln(cmd.OutOrStdout(), "   Run 'seclog configure' to create your own catalog.")
			fmt.Fprintln(cmd.OutOrStdout(), "\nOr use 'seclog --help' to see all available options.")
			return
		}
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Catalog file describing the searchable fields")
	rootCmd.PersistentFlags().StringVar(&catalogName, "catalog", "", "Catalog to use, the current one when empty")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output application log in the stdout")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output: auto, always or never")

	// Register completion for --logging-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("catalog", completeCatalogs)

	rootCmd.AddCommand(queryCommand)
	rootCmd.AddCommand(suggestCommand)
	rootCmd.AddCommand(versionCommand)
}
