// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/spf13/cobra"
)

var (
	generateOptions search.GeneratorOptions
	generateOutput  string
	generateAssets  string
	generateSpan    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate fake security events to try the search bar on",
	Long: `Generate JSON lines of made up security events, plus optionally the asset
file listing the hosts, services, ports and users they mention.

Example:
  seclog generate --size 5000 --output /tmp/events.log --assets /tmp/assets.yaml
  seclog tui --entries /tmp/events.log`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGenerate(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateOptions.Size, "size", 1000, "Number of log entries to generate")
	generateCmd.Flags().Int64Var(&generateOptions.Seed, "seed", 0, "Random seed, 0 for a random one")
	generateCmd.Flags().IntVar(&generateOptions.ErrorRate, "error", 5, "Error log percentage")
	generateCmd.Flags().IntVar(&generateOptions.WarnRate, "warn", 10, "Warning log percentage")
	generateCmd.Flags().StringVar(&generateSpan, "span", "24h", "Time range covered by the entries, ending now")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "-", "Output file path, - for stdout")
	generateCmd.Flags().StringVar(&generateAssets, "assets", "", "Also write the asset file of the generated entries")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command) error {
	opts := generateOptions
	span, err := time.ParseDuration(generateSpan)
	if err != nil {
		return fmt.Errorf("invalid span: %w", err)
	}
	opts.Span = span

	entries := search.Generate(opts)

	var w io.Writer = cmd.OutOrStdout()
	if generateOutput != "-" {
		if err := os.MkdirAll(filepath.Dir(generateOutput), 0o750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
		f, err := os.Create(generateOutput) //nolint:gosec
		if err != nil {
			return fmt.Errorf("error creating file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := search.WriteJSONLines(w, entries); err != nil {
		return err
	}

	if generateAssets != "" {
		set := assetsOf(entries)
		if err := asset.Save(generateAssets, set); err != nil {
			return fmt.Errorf("error writing assets: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d assets to %s\n", set.Count(), generateAssets)
	}
	return nil
}

// assetsOf lists the distinct hosts, services, ports and users of entries.
func assetsOf(entries []search.Entry) asset.Set {
	distinct := func(key string) []string {
		seen := map[string]bool{}
		var res []string
		for _, e := range entries {
			v := e.Fields.GetString(key)
			if v != "" && !seen[v] {
				seen[v] = true
				res = append(res, v)
			}
		}
		sort.Strings(res)
		return res
	}
	return asset.Set{
		Hosts:    distinct("host"),
		Services: distinct("service"),
		Ports:    distinct("destination_port"),
		Users:    distinct("user"),
	}
}
