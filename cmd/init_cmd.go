// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/bascanada/seclog/pkg/config"
	"github.com/spf13/cobra"
)

var format string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a catalog file holding the built-in catalog",
	Run: func(cmd *cobra.Command, args []string) {
		fileName, err := writeDefaultConfig(format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created catalog file: %s\n", fileName)
	},
}

func writeDefaultConfig(format string) (string, error) {
	switch format {
	case "json", "yaml":
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	fileName := "catalog." + format
	if _, err := os.Stat(fileName); err == nil {
		return "", fmt.Errorf("%s already exists", fileName)
	}
	if err := config.Default().Save(fileName); err != nil {
		return "", fmt.Errorf("failed to write catalog file: %w", err)
	}
	return fileName, nil
}

func init() {
	initCmd.Flags().StringVar(&format, "format", "yaml", "catalog file format (json or yaml)")
	rootCmd.AddCommand(initCmd)
}
