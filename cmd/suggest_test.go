package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuggest_Fields(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCommand()

	require.NoError(t, runSuggest(cmd, []string{"sou"}))
	assert.Equal(t, "> source_ip Source address\n", out.String())
}

func TestRunSuggest_LocalOnlyFields(t *testing.T) {
	setupCLI(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runSuggest(cmd, []string{"mess"}))
	assert.Empty(t, out.String())

	suggestLocal = true
	cmd, out, _ = newTestCommand()
	require.NoError(t, runSuggest(cmd, []string{"mess"}))
	assert.Contains(t, out.String(), "> message")
}

func TestRunSuggest_AssetValues(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCommand()

	require.NoError(t, runSuggest(cmd, []string{"host = w"}))
	assert.Equal(t, "> web-01\n  web-02\n", out.String())
}

func TestRunSuggest_Caret(t *testing.T) {
	setupCLI(t)
	caret = 3
	cmd, out, _ := newTestCommand()

	require.NoError(t, runSuggest(cmd, []string{"source_ip = 10"}))
	assert.Contains(t, out.String(), "> source_ip")
	assert.Contains(t, out.String(), "  protocol")
	assert.NotContains(t, out.String(), "message")
}

func TestRunSuggest_NoCandidate(t *testing.T) {
	setupCLI(t)
	cmd, out, errOut := newTestCommand()

	require.NoError(t, runSuggest(cmd, []string{"zzz"}))
	assert.Empty(t, out.String())
	assert.Equal(t, "no suggestion for the field\n", errOut.String())
}
