// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/config"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard to create a field catalog",
	Long: `Launch an interactive wizard to help you create a seclog catalog.

The wizard picks the fields offered by the search bar among the built-in
security attributes and the asset file feeding their suggestions.

Example:
  seclog configure
  seclog configure -c /path/to/catalog.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConfigWizard(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

// wizardAnswers are the values collected by the wizard forms.
type wizardAnswers struct {
	Name        string
	Description string
	AssetPath   string
	Fields      []string
}

func validateCatalogName(str string) error {
	if strings.TrimSpace(str) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(str, " \t\n") {
		return fmt.Errorf("name cannot contain whitespace")
	}
	return nil
}

func validateAssetPath(str string) error {
	if strings.TrimSpace(str) == "" {
		return nil
	}
	if _, err := asset.Load(str); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// buildCatalog keeps the fields of the built-in catalog picked in answers.
func buildCatalog(answers wizardAnswers) (config.Catalog, error) {
	base := config.Default().Catalogs[config.DefaultCatalog]

	picked := map[string]bool{}
	for _, f := range answers.Fields {
		picked[f] = true
	}

	cat := config.Catalog{
		Description: answers.Description,
		Assets:      strings.TrimSpace(answers.AssetPath),
	}
	for _, item := range base.Items {
		if picked[item.Key] {
			cat.Items = append(cat.Items, item)
		}
	}
	if _, err := cat.Fields(); err != nil {
		return cat, err
	}
	return cat, nil
}

// mergeCatalog adds cat to the config at path, creating it when missing.
func mergeCatalog(path string, name string, cat config.Catalog) (*config.Config, error) {
	cfg := &config.Config{Catalogs: map[string]config.Catalog{}}
	if _, err := os.Stat(path); err == nil {
		existing, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to merge with existing catalog file: %w", err)
		}
		cfg = existing
	}
	cfg.Catalogs[name] = cat
	return cfg, nil
}

func targetConfigPath(cfgPath string) (string, error) {
	if strings.TrimSpace(cfgPath) != "" {
		return cfgPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); envPath != "" {
		return envPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, config.DefaultConfigDir, config.DefaultConfigFile), nil
}

func runConfigWizard(cfgPath string) error {
	var (
		answers wizardAnswers
		confirm bool
	)

	base := config.Default().Catalogs[config.DefaultCatalog]
	options := make([]huh.Option[string], 0, len(base.Items))
	for _, item := range base.Items {
		label := item.Key
		if item.Display != "" {
			label = fmt.Sprintf("%s (%s)", item.Display, item.Key)
		}
		options = append(options, huh.NewOption(label, item.Key).Selected(true))
	}

	fmt.Println("🚀 Welcome to seclog catalog wizard!")
	fmt.Println()

	// 1. Catalog information
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name for this catalog").
				Description("A friendly name to identify this catalog (e.g., network, auth)").
				Placeholder("network").
				Value(&answers.Name).
				Validate(validateCatalogName),

			huh.NewInput().
				Title("Description").
				Placeholder("Firewall and proxy events").
				Value(&answers.Description),

			huh.NewInput().
				Title("Asset file").
				Description("YAML or JSON file listing hosts, services, ports and users (optional)").
				Placeholder("~/.seclog/assets.yaml").
				Value(&answers.AssetPath).
				Validate(validateAssetPath),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Fields offered by the search bar").
				Options(options...).
				Value(&answers.Fields).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one field")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cat, err := buildCatalog(answers)
	if err != nil {
		return err
	}

	// 2. Preview
	out, err := yaml.Marshal(config.Config{Catalogs: map[string]config.Catalog{answers.Name: cat}})
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("─", 60))
	fmt.Println("📝 Generated Catalog:")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(string(out))
	fmt.Println(strings.Repeat("─", 60) + "\n")

	// 3. Confirm and save
	targetPath, err := targetConfigPath(cfgPath)
	if err != nil {
		return err
	}

	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this catalog?").
				Description(fmt.Sprintf("Target: %s", targetPath)).
				Affirmative("Yes, save it!").
				Negative("No, cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("❌ Catalog not saved. Run 'seclog configure' again when ready.")
		return nil
	}

	cfg, err := mergeCatalog(targetPath, answers.Name, cat)
	if err != nil {
		return err
	}
	if err := cfg.Save(targetPath); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	if err := config.SaveState(&config.State{CurrentCatalog: answers.Name}); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	fmt.Printf("\n✅ Catalog saved to %s\n\n", targetPath)
	fmt.Println("🎉 You're all set! Try it now:")
	fmt.Printf("   seclog tui --catalog %s\n\n", answers.Name)
	return nil
}
