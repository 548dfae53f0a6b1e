// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/config"
	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/log/printer"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/spf13/cobra"
)

var (
	catalogName string
	colorMode   string

	logger log.MyLoggerOptions

	// entries options
	entriesPath    string
	kvRegex        string
	timestampRegex string
)

func onCommandStart(cmd *cobra.Command, args []string) {
	if err := log.ConfigureMyLogger(&logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
	}

	var explicit *bool
	switch colorMode {
	case "always", "never":
		enabled := colorMode == "always"
		explicit = &enabled
	}
	printer.InitColorState(explicit, cmd.OutOrStdout())
}

// loadConfig wraps config.LoadConfig with a message matching the failure.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		errorMsg := "failed to load catalog config"
		switch {
		case errors.Is(err, config.ErrConfigParse):
			errorMsg = "invalid catalog file format"
		case errors.Is(err, config.ErrNoCatalogs):
			errorMsg = "catalog file missing 'catalogs' section"
		}
		if path != "" {
			return nil, fmt.Errorf("%s %s: %w", errorMsg, path, err)
		}
		return nil, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return cfg, nil
}

// currentCatalog returns the catalog name to use: the --catalog flag,
// then the one saved by `seclog catalog use`.
func currentCatalog() string {
	if catalogName != "" {
		return catalogName
	}
	state, err := config.LoadState()
	if err != nil {
		log.Warn("failed to read state: %v", err)
		return ""
	}
	return state.CurrentCatalog
}

type session struct {
	Name    string
	Catalog config.Catalog
	Fields  []query.Field
	Assets  *asset.Cache
}

// loadSession loads the config, picks the catalog and reads its assets.
func loadSession() (*session, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	name := currentCatalog()
	cat, err := cfg.Catalog(name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = defaultCatalogName(cfg)
	}

	fields, err := cat.Fields()
	if err != nil {
		return nil, fmt.Errorf("catalog '%s': %w", name, err)
	}

	s := &session{Name: name, Catalog: cat, Fields: fields, Assets: asset.NewCache(asset.Set{})}
	if path := cat.AssetPath(); path != "" {
		set, err := asset.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load assets: %w", err)
		}
		s.Assets.Replace(set)
		log.Debug("loaded %d assets from %s", set.Count(), path)
	}
	return s, nil
}

// defaultCatalogName mirrors the choice of Config.Catalog for an empty name.
func defaultCatalogName(cfg *config.Config) string {
	if len(cfg.Catalogs) == 1 {
		return cfg.Names()[0]
	}
	return config.DefaultCatalog
}

// readEntries reads the --entries file, stdin when it is "-".
func readEntries() ([]search.Entry, error) {
	if entriesPath == "" {
		return nil, nil
	}

	opts := search.ReadOptions{}
	if kvRegex != "" {
		opts.KvRegex.S(kvRegex)
	}
	if timestampRegex != "" {
		opts.TimestampRegex.S(timestampRegex)
	}

	if entriesPath == "-" {
		return search.ReadEntries(os.Stdin, opts)
	}
	f, err := os.Open(entriesPath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open entries: %w", err)
	}
	defer f.Close()
	return search.ReadEntries(f, opts)
}

func addEntriesFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&entriesPath, "entries", "", "Log file to filter, - for stdin (JSON lines or key=value text)")
	cmd.Flags().StringVar(&kvRegex, "fields-kv-regex", "", "Regex to extract key-value fields from log text, e.g. '(\\w+)=([^\\s]+)'")
	cmd.Flags().StringVar(&timestampRegex, "timestamp-regex", "", "Regex matching the timestamp at the start of text lines")
}

// completeCatalogs completes catalog names for shell completion.
func completeCatalogs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		// Cobra will report the error to the user's shell.
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, name := range cfg.Names() {
		// Format: "value\tdescription"
		suggestions = append(suggestions, fmt.Sprintf("%s\t%s", name, cfg.Catalogs[name].Description))
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
