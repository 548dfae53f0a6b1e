package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/seclog/pkg/config"
)

func TestListCatalogs_MarksCurrent(t *testing.T) {
	setupCLI(t)
	catalogName = ""
	require.NoError(t, config.SaveState(&config.State{CurrentCatalog: "auth"}))
	cmd, out, _ := newTestCommand()

	require.NoError(t, listCatalogs(cmd))

	output := out.String()
	assert.Regexp(t, `CURRENT\s+NAME\s+FIELDS\s+DESCRIPTION`, output)
	assert.Regexp(t, `\*\s+auth\s+1\s+Authentication events`, output)
	assert.Regexp(t, `(?m)^\s+net\s+4\s+Network events`, output)
}

func TestListFields(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCommand()

	require.NoError(t, listFields(cmd))

	output := out.String()
	assert.Regexp(t, `source_ip\s+eq in\s+eq neq in nin like nlike\s+Source address`, output)
	assert.Regexp(t, `message\s+-\s+like`, output)
}

func TestCurrentCatalog(t *testing.T) {
	setupCLI(t)
	assert.Equal(t, "net", currentCatalog(), "flag wins")

	catalogName = ""
	assert.Equal(t, "", currentCatalog())

	require.NoError(t, config.SaveState(&config.State{CurrentCatalog: "auth"}))
	assert.Equal(t, "auth", currentCatalog())
}

func TestLoadSession(t *testing.T) {
	setupCLI(t)

	s, err := loadSession()
	require.NoError(t, err)
	assert.Equal(t, "net", s.Name)
	assert.Len(t, s.Fields, 4)
	assert.Equal(t, []string{"web-01", "web-02", "db-01"}, s.Assets.Snapshot().Hosts)
}

func TestLoadSession_BuiltinCatalog(t *testing.T) {
	setupCLI(t)
	configPath = ""
	catalogName = ""

	s, err := loadSession()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCatalog, s.Name)
	assert.NotEmpty(t, s.Fields)
	assert.Zero(t, s.Assets.Snapshot().Count())
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalogs: [oops"), 0o600))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigParse)
	assert.Contains(t, err.Error(), "invalid catalog file format")
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	name, err := writeDefaultConfig("yaml")
	require.NoError(t, err)
	assert.Equal(t, "catalog.yaml", name)

	cfg, err := config.LoadConfig(name)
	require.NoError(t, err)
	assert.Contains(t, cfg.Catalogs, config.DefaultCatalog)

	_, err = writeDefaultConfig("yaml")
	assert.ErrorContains(t, err, "already exists")

	_, err = writeDefaultConfig("toml")
	assert.EqualError(t, err, "unsupported format: toml")
}
